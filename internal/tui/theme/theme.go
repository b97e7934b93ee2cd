package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/epgi/internal/config"
)

type Theme struct {
	Default  lipgloss.Style
	Selected lipgloss.Style
	Past     lipgloss.Style
	Status   lipgloss.Style

	Title     lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style
}

// Default is the theme of an unconfigured install.
func Default() Theme {
	return FromColors(config.DefaultColors())
}

// FromColors maps the four configured colour pairs onto terminal styles.
func FromColors(c config.Colors) Theme {
	status := pairStyle(c.Status)
	return Theme{
		Default:   pairStyle(c.Default),
		Selected:  pairStyle(c.Selected),
		Past:      pairStyle(c.Past),
		Status:    status,
		Title:     status.Bold(true),
		StateWarn: status.Foreground(lipgloss.Color("1")).Bold(true),
		StateLoad: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func pairStyle(p config.ColorPair) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Background(lipgloss.Color(p.Background))
}

// RowStyle picks the style of a list row. Selection wins over the past style.
func (t Theme) RowStyle(selected, past bool) lipgloss.Style {
	switch {
	case selected:
		return t.Selected
	case past:
		return t.Past
	default:
		return t.Default
	}
}

// HeaderStyle picks the style of the top line. An error status wins over the
// programme title.
func (t Theme) HeaderStyle(title, warn bool) lipgloss.Style {
	switch {
	case warn:
		return t.StateWarn
	case title:
		return t.Title
	default:
		return t.Status
	}
}
