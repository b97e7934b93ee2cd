package tui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/glabrego/epgi/internal/config"
	"github.com/glabrego/epgi/internal/guide"
	"github.com/glabrego/epgi/internal/tui/actions"
	"github.com/glabrego/epgi/internal/tui/platform"
	"github.com/glabrego/epgi/internal/tui/state"
	tuitheme "github.com/glabrego/epgi/internal/tui/theme"
	"github.com/glabrego/epgi/internal/tui/view"
	"github.com/glabrego/epgi/internal/xmltv"
)

const defaultWidth = 80

type Service interface {
	actions.Service
	CachedSnapshot(index int) (xmltv.Snapshot, bool)
}

type screenKind int

const (
	screenProviders screenKind = iota
	screenChannels
	screenTimeline
	screenDetail
)

// screen is one entry of the navigation stack. Which fields are used depends on
// kind.
type screen struct {
	kind screenKind
	list state.ScrollList

	// channels
	provider int
	url      string
	loading  bool
	noData   bool
	allRows  []guide.NowRow
	rows     []guide.NowRow
	filter   string

	// timeline and detail
	channel *xmltv.Channel

	// detail
	programme xmltv.Programme
	lines     []string
	top       int
}

type Model struct {
	service   Service
	providers []config.Provider
	theme     tuitheme.Theme
	filter    guide.Filter
	format    view.TimelineFormat
	logger    *zap.Logger

	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	input     textinput.Model
	filtering bool

	stack  []screen
	width  int
	height int
	status    string
	statusErr bool

	nowFn     func() time.Time
	copyURLFn func(string) error
}

func NewModel(service Service, cfg config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Prompt = "[F]ilter: "
	input.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Line

	return Model{
		service:   service,
		providers: cfg.Providers,
		theme:     tuitheme.FromColors(cfg.Colors),
		filter:    guide.NewFilter(cfg.Locale),
		format:    view.TimelineFormat{Date: cfg.DateFormat, Time: cfg.TimeFormat, Location: cfg.Location},
		logger:    logger,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		input:     input,
		stack:     []screen{{kind: screenProviders}},
		nowFn:     time.Now,
		copyURLFn: platform.CopyURLToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(0, msg.Width-lipgloss.Width(m.input.Prompt)-1)
		m.reflow()
		return m, nil
	case actions.ProviderLoadSuccessMsg:
		m.logger.Debug("Provider loaded",
			zap.Int("provider", msg.Index),
			zap.Int("channels", len(msg.Snapshot.Channels)),
			zap.Duration("duration", msg.Duration))
		m.applySnapshot(msg.Index, msg.Snapshot)
		return m, nil
	case actions.ProviderLoadErrorMsg:
		m.logger.Error("Could not load provider", zap.Int("provider", msg.Index), zap.Error(msg.Err))
		m.applySnapshot(msg.Index, xmltv.Snapshot{})
		m.setStatus(msg.Err.Error(), true)
		return m, nil
	case actions.CopyURLSuccessMsg:
		m.setStatus(msg.Status, false)
		return m, nil
	case actions.CopyURLErrorMsg:
		m.logger.Warn("Could not copy provider URL", zap.Error(msg.Err))
		m.setStatus(msg.Err.Error(), true)
		return m, nil
	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterInput(msg)
		}
		m.setStatus("", false)
		next, cmd := m.handleKey(msg)
		next.reflow()
		return next, cmd
	}

	if m.filtering {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.stack = slices.Clone(m.stack)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if len(m.stack) == 1 {
			return m, tea.Quit
		}
		m.stack = m.stack[:len(m.stack)-1]
		return m, nil
	}

	s := m.current()
	if s.kind == screenDetail {
		m.scrollDetail(msg)
		return m, nil
	}
	if m.moveList(msg) {
		return m, nil
	}

	switch s.kind {
	case screenProviders:
		switch {
		case key.Matches(msg, m.keys.Forward, m.keys.Open):
			return m.openProvider(s.list.Selected)
		case key.Matches(msg, m.keys.Copy):
			return m.copyProviderURL(s.list.Selected)
		}
	case screenChannels:
		if s.loading && !key.Matches(msg, m.keys.Filter) {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Forward):
			if len(s.rows) > 0 {
				m.openTimeline(s.rows[s.list.Selected])
			}
		case key.Matches(msg, m.keys.Open):
			if len(s.rows) > 0 {
				row := s.rows[s.list.Selected]
				m.openDetail(row.Channel, row.Programme)
			}
		case key.Matches(msg, m.keys.Filter):
			return m.startFilter()
		case key.Matches(msg, m.keys.ClearFilter):
			m.setFilter("")
		}
	case screenTimeline:
		if key.Matches(msg, m.keys.Forward, m.keys.Open) && len(s.channel.Programmes) > 0 {
			m.openDetail(s.channel, s.channel.Programmes[s.list.Selected])
		}
	}
	return m, nil
}

func (m *Model) moveList(msg tea.KeyMsg) bool {
	s := m.current()
	n, page := m.rowCount(s), m.pageSize()
	switch {
	case key.Matches(msg, m.keys.Up):
		s.list = s.list.Move(-1, n, page)
	case key.Matches(msg, m.keys.Down):
		s.list = s.list.Move(1, n, page)
	case key.Matches(msg, m.keys.Home):
		s.list = s.list.Home(n, page)
	case key.Matches(msg, m.keys.End):
		s.list = s.list.End(n, page)
	case key.Matches(msg, m.keys.PageUp):
		s.list = s.list.PageUp(n, page)
	case key.Matches(msg, m.keys.PageDown):
		s.list = s.list.PageDown(n, page)
	default:
		return false
	}
	return true
}

func (m *Model) scrollDetail(msg tea.KeyMsg) {
	s := m.current()
	total, page := len(s.lines), m.pageSize()
	switch {
	case key.Matches(msg, m.keys.Up):
		s.top = state.Scroll(s.top, -1, total, page)
	case key.Matches(msg, m.keys.Down):
		s.top = state.Scroll(s.top, 1, total, page)
	case key.Matches(msg, m.keys.PageUp):
		s.top = state.Scroll(s.top, -page, total, page)
	case key.Matches(msg, m.keys.PageDown):
		s.top = state.Scroll(s.top, page, total, page)
	case key.Matches(msg, m.keys.Home):
		s.top = 0
	case key.Matches(msg, m.keys.End):
		s.top = state.MaxTop(total, page)
	}
}

func (m Model) openProvider(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.providers) {
		return m, nil
	}
	p := m.providers[i]
	s := screen{kind: screenChannels, provider: p.Index, url: p.URL}
	if snap, ok := m.service.CachedSnapshot(p.Index); ok {
		m.stack = append(m.stack, m.withSnapshot(s, snap))
		return m, nil
	}
	s.loading = true
	m.stack = append(m.stack, s)
	return m, tea.Batch(m.spinner.Tick, actions.LoadProviderCmd(m.service, p.Index))
}

func (m Model) copyProviderURL(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.providers) {
		return m, nil
	}
	url, err := platform.ValidateProviderURL(m.providers[i].URL)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	return m, actions.CopyURLCmd(url, m.copyURLFn)
}

func (m *Model) openTimeline(row guide.NowRow) {
	n := len(row.Channel.Programmes)
	m.stack = append(m.stack, screen{
		kind:    screenTimeline,
		channel: row.Channel,
		list:    state.Anchor(row.Index, n, m.pageSize()),
	})
}

func (m *Model) openDetail(ch *xmltv.Channel, p xmltv.Programme) {
	m.stack = append(m.stack, screen{
		kind:      screenDetail,
		channel:   ch,
		programme: p,
		lines:     view.AttributeLines(p.Attributes, view.DetailWrapWidth(m.width)),
	})
}

func (m Model) startFilter() (Model, tea.Cmd) {
	m.filtering = true
	m.input.SetValue(m.current().filter)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.filtering = false
		m.input.Blur()
		m.stack = slices.Clone(m.stack)
		m.setFilter(m.input.Value())
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setFilter re-filters the channel screen and moves the cursor back to the top.
func (m *Model) setFilter(text string) {
	s := m.current()
	if s.kind != screenChannels {
		return
	}
	s.filter = text
	s.rows = m.filter.Apply(s.allRows, text)
	s.list = state.ScrollList{}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr && text != ""
}

func (m Model) withSnapshot(s screen, snap xmltv.Snapshot) screen {
	s.loading = false
	s.noData = snap.Empty()
	s.allRows = guide.NowPlaying(snap.Channels, m.nowFn())
	s.rows = m.filter.Apply(s.allRows, s.filter)
	s.list = state.ScrollList{}
	return s
}

func (m *Model) applySnapshot(index int, snap xmltv.Snapshot) {
	m.stack = slices.Clone(m.stack)
	for i, s := range m.stack {
		if s.kind == screenChannels && s.provider == index && s.loading {
			m.stack[i] = m.withSnapshot(s, snap)
		}
	}
}

func (m Model) anyLoading() bool {
	for _, s := range m.stack {
		if s.loading {
			return true
		}
	}
	return false
}

// reflow restores the viewport of every screen after the page size or width
// changed.
func (m *Model) reflow() {
	m.stack = slices.Clone(m.stack)
	page := m.pageSize()
	for i := range m.stack {
		s := &m.stack[i]
		if s.kind == screenDetail {
			s.lines = view.AttributeLines(s.programme.Attributes, view.DetailWrapWidth(m.width))
			s.top = state.Scroll(s.top, 0, len(s.lines), page)
			continue
		}
		s.list = s.list.Follow(m.rowCount(s), page)
	}
}

func (m *Model) current() *screen {
	return &m.stack[len(m.stack)-1]
}

func (m Model) rowCount(s *screen) int {
	switch s.kind {
	case screenProviders:
		return len(m.providers)
	case screenChannels:
		return len(s.rows)
	case screenTimeline:
		return len(s.channel.Programmes)
	default:
		return len(s.lines)
	}
}

// pageSize is the number of body rows between the header line and the footer.
func (m Model) pageSize() int {
	if m.height <= 0 {
		return state.DefaultPageSize
	}
	return max(1, state.PageStep(m.height)-(m.footerHeight()-1))
}

func (m Model) footerHeight() int {
	return max(1, lipgloss.Height(m.helpView()))
}

func (m Model) helpView() string {
	return m.help.View(m.keys.forScreen(m.stack[len(m.stack)-1].kind))
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) View() string {
	rows := m.height
	if rows <= 0 {
		rows = state.DefaultPageSize + 2
	}
	f := view.NewFrame(rows, m.width)
	s := m.stack[len(m.stack)-1]
	page := m.pageSize()
	now := m.nowFn()

	header := ""
	switch s.kind {
	case screenProviders:
		header = view.ProvidersHeader(len(m.providers))
		view.DrawList(f, m.listBody(s, page, func(i int) (string, bool) {
			return view.ProviderLine(m.providers[i]), false
		}), m.theme.RowStyle)
	case screenChannels:
		header = view.NowStatus(s.filter, len(s.rows), len(s.allRows))
		width := m.contentWidth()
		switch {
		case s.loading:
			f.DrawRaw(1, view.LoadingLine(m.spinner.View(), s.url, m.theme))
		case len(s.rows) == 0:
			f.DrawLine(1, 0, view.EmptyLine(s.filter, s.noData), m.theme.Default)
		default:
			view.DrawList(f, m.listBody(s, page, func(i int) (string, bool) {
				return view.NowLine(s.rows[i], now, width), false
			}), m.theme.RowStyle)
		}
	case screenTimeline:
		header = view.TimelineHeader(s.channel.Name, len(s.channel.Programmes))
		view.DrawList(f, m.listBody(s, page, func(i int) (string, bool) {
			p := s.channel.Programmes[i]
			return view.TimelineLine(p.Start, p.Title, m.format), p.EndedBefore(now)
		}), m.theme.RowStyle)
	case screenDetail:
		name := ""
		if s.channel != nil {
			name = s.channel.Name
		}
		header = view.DetailHeader(name, s.programme.Title)
		for i := 0; i < page && s.top+i < len(s.lines); i++ {
			f.DrawLine(1+i, 1, s.lines[s.top+i], m.theme.Default)
		}
	}

	if m.status != "" {
		header += "  " + m.status
	}
	if m.filtering {
		f.DrawRaw(0, m.input.View())
	} else {
		f.DrawLine(0, 0, header, m.theme.HeaderStyle(s.kind == screenDetail, m.statusErr))
	}

	footer := strings.Split(m.helpView(), "\n")
	for i, line := range footer {
		f.DrawRaw(rows-len(footer)+i, line)
	}
	return f.String()
}

func (m Model) listBody(s screen, page int, row func(i int) (string, bool)) view.ListBody {
	return view.ListBody{
		FirstRow: 1,
		Count:    m.rowCount(&s),
		Top:      s.list.Top,
		Page:     page,
		Selected: s.list.Selected,
		Row:      row,
	}
}
