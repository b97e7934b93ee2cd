package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Home        key.Binding
	End         key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Back        key.Binding
	Forward     key.Binding
	Open        key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Copy        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "esc"),
			key.WithHelp("←/esc", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "open"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f", "F"),
			key.WithHelp("f", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "clear filter"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy URL"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is the footer of the list screens.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Forward, k.Open, k.Back, k.Filter, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End, k.PageUp, k.PageDown},
		{k.Forward, k.Open, k.Back},
		{k.Filter, k.ClearFilter, k.Copy, k.Help, k.Quit},
	}
}

// forScreen narrows the bindings shown in the footer to the ones a screen reacts
// to. Disabled bindings no longer match, so key handling uses the full map.
func (k KeyMap) forScreen(kind screenKind) KeyMap {
	switch kind {
	case screenProviders:
		k.Back.SetHelp("←/esc", "quit")
		k.Forward.SetHelp("→/enter", "channels")
		k.Open.SetEnabled(false)
		k.Filter.SetEnabled(false)
		k.ClearFilter.SetEnabled(false)
	case screenChannels:
		k.Copy.SetEnabled(false)
	case screenTimeline:
		k.Forward.SetHelp("→/enter", "details")
		k.Open.SetEnabled(false)
		k.Filter.SetEnabled(false)
		k.ClearFilter.SetEnabled(false)
		k.Copy.SetEnabled(false)
	case screenDetail:
		k.Forward.SetEnabled(false)
		k.Open.SetEnabled(false)
		k.Filter.SetEnabled(false)
		k.ClearFilter.SetEnabled(false)
		k.Copy.SetEnabled(false)
	}
	return k
}
