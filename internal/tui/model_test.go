package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/glabrego/epgi/internal/config"
	"github.com/glabrego/epgi/internal/tui/actions"
	"github.com/glabrego/epgi/internal/tui/platform"
	"github.com/glabrego/epgi/internal/xmltv"
)

var testNow = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

type fakeService struct {
	snaps  map[int]xmltv.Snapshot
	cached map[int]bool
	calls  int
}

func (f *fakeService) Snapshot(_ context.Context, index int) (xmltv.Snapshot, error) {
	f.calls++
	snap, ok := f.snaps[index]
	if !ok {
		return xmltv.Snapshot{}, errors.New("unknown provider")
	}
	f.cached[index] = true
	return snap, nil
}

func (f *fakeService) CachedSnapshot(index int) (xmltv.Snapshot, bool) {
	if !f.cached[index] {
		return xmltv.Snapshot{}, false
	}
	return f.snaps[index], true
}

func at(hhmm string) time.Time {
	ts, err := time.Parse("20060102 1504", "20240101 "+hhmm)
	if err != nil {
		panic(err)
	}
	return ts
}

func show(title, start, stop string, attrs xmltv.Attributes) xmltv.Programme {
	return xmltv.Programme{Title: title, Start: at(start), Stop: at(stop), Attributes: attrs}
}

func sampleSnapshot() xmltv.Snapshot {
	return xmltv.Snapshot{URL: "http://a.example.com/epg.xml", Channels: []xmltv.Channel{
		{ID: "1", Name: "News", Programmes: []xmltv.Programme{
			show("Early News", "0800", "0900", nil),
			show("Breakfast", "0900", "1000", nil),
			show("Morning Show", "1000", "1100", xmltv.Attributes{
				"category": xmltv.List("News", "Talk"),
				"desc":     xmltv.Scalar("A long morning programme with guests and weather."),
			}),
			show("Noon", "1100", "1200", nil),
		}},
		{ID: "2", Name: "Quiet"},
		{ID: "3", Name: "Sports", Programmes: []xmltv.Programme{
			show("Match", "1000", "1200", nil),
		}},
	}}
}

func newTestModel(t *testing.T) (Model, *fakeService) {
	t.Helper()
	svc := &fakeService{
		snaps:  map[int]xmltv.Snapshot{1: sampleSnapshot(), 2: {URL: "http://b.example.com/epg.xml.gz"}},
		cached: map[int]bool{},
	}
	cfg := config.Config{
		Providers: []config.Provider{
			{Index: 1, URL: "http://a.example.com/epg.xml"},
			{Index: 2, URL: "http://b.example.com/epg.xml.gz"},
			{Index: 3, URL: "http://c.example.com/epg.xml"},
		},
		Location:   time.UTC,
		Locale:     language.English,
		DateFormat: "%d.%m",
		TimeFormat: "%H:%M",
		Colors:     config.DefaultColors(),
	}
	m := NewModel(svc, cfg, nil)
	m.nowFn = func() time.Time { return testNow }
	return m, svc
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// openNews opens provider 1 and delivers its snapshot.
func openNews(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(t, m, keyRight)
	if cmd == nil {
		t.Fatal("expected load command")
	}
	next, _ := m.Update(actions.LoadProviderCmd(m.service, 1)())
	return next.(Model)
}

func TestModelView_ListsProviders(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"3 providers", "1  http://a.example.com/epg.xml", "3  http://c.example.com/epg.xml", "quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, out)
		}
	}
}

func TestModel_NowListShowsProgress(t *testing.T) {
	m, svc := newTestModel(t)
	m, _ = press(t, m, keyRight)
	if !m.current().loading {
		t.Fatal("expected channel screen to be loading")
	}
	if !strings.Contains(m.View(), "Loading http://a.example.com/epg.xml") {
		t.Fatalf("expected loading line, got:\n%s", m.View())
	}

	next, _ := m.Update(actions.LoadProviderCmd(m.service, 1)())
	m = next.(Model)
	s := m.current()
	if s.loading || len(s.rows) != 2 {
		t.Fatalf("expected two airing channels, got %+v", s.rows)
	}
	out := m.View()
	var newsLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "News") {
			newsLine = line
		}
	}
	if !strings.Contains(newsLine, "Morning Show") || !strings.Contains(newsLine, " 50% █████") {
		t.Fatalf("unexpected news row %q in view:\n%s", newsLine, out)
	}
	if strings.Contains(out, "Quiet") {
		t.Fatalf("idle channel should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "[F]ilter: None  2/2") {
		t.Fatalf("expected status line, got:\n%s", out)
	}
	if svc.calls != 1 {
		t.Fatalf("expected one load, got %d", svc.calls)
	}
}

func TestModel_CachedProviderOpensWithoutLoading(t *testing.T) {
	m, svc := newTestModel(t)
	m = openNews(t, m)
	m, _ = press(t, m, keyLeft)
	m, cmd := press(t, m, keyEnter)
	if cmd != nil {
		t.Fatal("expected no load command for cached provider")
	}
	if s := m.current(); s.kind != screenChannels || s.loading || len(s.rows) != 2 {
		t.Fatalf("unexpected channel screen: %+v", s)
	}
	if svc.calls != 1 {
		t.Fatalf("expected a single load, got %d", svc.calls)
	}
}

func TestModel_EmptySnapshotShowsNoData(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, keyDown, keyRight)
	next, _ := m.Update(actions.LoadProviderCmd(m.service, 2)())
	m = next.(Model)
	if !strings.Contains(m.View(), "No EPG data") {
		t.Fatalf("expected no-data line, got:\n%s", m.View())
	}
	m, _ = press(t, m, keyRight, keyEnter, keyDown)
	if m.current().kind != screenChannels {
		t.Fatalf("expected to stay on channel screen, got %v", m.current().kind)
	}
}

func TestModel_LoadErrorDegradesToEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, keyDown, keyDown, keyRight)
	next, _ := m.Update(actions.LoadProviderCmd(m.service, 3)())
	m = next.(Model)
	if s := m.current(); s.loading || !s.noData {
		t.Fatalf("expected empty channel screen, got %+v", s)
	}
	if m.status == "" || !m.statusErr {
		t.Fatalf("expected error status for load error, got %q err=%v", m.status, m.statusErr)
	}
	m, _ = press(t, m, keyDown)
	if m.status != "" || m.statusErr {
		t.Fatalf("expected status cleared by next key, got %q err=%v", m.status, m.statusErr)
	}
}

func TestModel_FilterPromptAndClear(t *testing.T) {
	m, _ := newTestModel(t)
	m = openNews(t, m)
	m, _ = press(t, m, keyDown)
	if m.current().list.Selected != 1 {
		t.Fatalf("expected selection on second row, got %+v", m.current().list)
	}

	m, _ = press(t, m, runeKey('f'))
	if !m.filtering {
		t.Fatal("expected filter prompt")
	}
	m, _ = press(t, m, runeKey('S'), runeKey('p'), keyEnter)
	s := m.current()
	if m.filtering || s.filter != "Sp" {
		t.Fatalf("expected committed filter, got filtering=%v filter=%q", m.filtering, s.filter)
	}
	if len(s.rows) != 1 || s.rows[0].Channel.Name != "Sports" {
		t.Fatalf("unexpected filtered rows: %+v", s.rows)
	}
	if s.list.Selected != 0 || s.list.Top != 0 {
		t.Fatalf("expected cursor reset, got %+v", s.list)
	}
	if !strings.Contains(m.View(), "[F]ilter: 'Sp'  1/2") {
		t.Fatalf("expected filter in status line, got:\n%s", m.View())
	}

	m, _ = press(t, m, runeKey('f'), runeKey('x'), keyEsc)
	if m.filtering || m.current().filter != "Sp" {
		t.Fatalf("expected escape to keep old filter, got %q", m.current().filter)
	}

	m, _ = press(t, m, runeKey('c'))
	if m.current().filter != "" || len(m.current().rows) != 2 {
		t.Fatalf("expected cleared filter, got %+v", m.current())
	}
}

func TestModel_FilterIsCaseInsensitive(t *testing.T) {
	m, _ := newTestModel(t)
	m = openNews(t, m)
	m, _ = press(t, m, runeKey('f'), runeKey('n'), runeKey('E'), runeKey('w'), keyEnter)
	if rows := m.current().rows; len(rows) != 1 || rows[0].Channel.Name != "News" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestModel_TimelineAnchorsCurrentProgramme(t *testing.T) {
	m, _ := newTestModel(t)
	m = openNews(t, m)
	m, _ = press(t, m, keyRight)
	s := m.current()
	if s.kind != screenTimeline || s.channel.Name != "News" {
		t.Fatalf("expected News timeline, got %+v", s)
	}
	if s.list.Selected != 2 || s.list.Top != 1 {
		t.Fatalf("expected current programme with one row above, got %+v", s.list)
	}
	out := m.View()
	if strings.Contains(out, "Early News") {
		t.Fatalf("expected first programme scrolled out, got:\n%s", out)
	}
	if !strings.Contains(out, "01.01 09:00 Breakfast") || !strings.Contains(out, "01.01 10:00 Morning Show") {
		t.Fatalf("unexpected timeline rows:\n%s", out)
	}

	m, _ = press(t, m, keyLeft)
	if m.current().kind != screenChannels {
		t.Fatalf("expected back on channel screen, got %v", m.current().kind)
	}
}

func TestModel_DetailFromChannelsAndTimeline(t *testing.T) {
	m, _ := newTestModel(t)
	m = openNews(t, m)

	m, _ = press(t, m, keyEnter)
	s := m.current()
	if s.kind != screenDetail || s.programme.Title != "Morning Show" {
		t.Fatalf("expected Morning Show detail, got %+v", s)
	}
	out := m.View()
	if !strings.Contains(out, "category: News, Talk") || !strings.Contains(out, "News / Morning Show") {
		t.Fatalf("unexpected detail view:\n%s", out)
	}

	m, _ = press(t, m, keyEsc, keyRight, keyUp, keyEnter)
	s = m.current()
	if s.kind != screenDetail || s.programme.Title != "Breakfast" {
		t.Fatalf("expected Breakfast detail, got %+v", s)
	}
	if !strings.Contains(m.View(), "No attributes found for this programme.") {
		t.Fatalf("expected empty attribute message, got:\n%s", m.View())
	}
	if len(m.stack) != 4 {
		t.Fatalf("expected four screens on the stack, got %d", len(m.stack))
	}
}

func TestModel_DetailScrollsAndRewrapsOnResize(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 24, Height: 6})
	m = next.(Model)
	m = openNews(t, m)
	m, _ = press(t, m, keyEnter)

	narrow := len(m.current().lines)
	if narrow <= m.pageSize() {
		t.Fatalf("expected detail longer than a page, got %d lines for page %d", narrow, m.pageSize())
	}
	m, _ = press(t, m, keyDown, keyDown)
	if m.current().top != 2 {
		t.Fatalf("expected detail scrolled by two, got %d", m.current().top)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if want := narrow - m.pageSize(); m.current().top != want {
		t.Fatalf("expected end at %d, got %d", want, m.current().top)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	m = next.(Model)
	s := m.current()
	if len(s.lines) >= narrow {
		t.Fatalf("expected fewer lines after widening, got %d (was %d)", len(s.lines), narrow)
	}
	if s.top != 0 {
		t.Fatalf("expected top clamped after resize, got %d", s.top)
	}
}

func TestModel_BackAtRootQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, keyLeft)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
	_, cmd = press(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
}

func TestModel_DownPastEndOfProviders(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 100; i++ {
		m, _ = press(t, m, keyDown)
	}
	s := m.current()
	if s.list.Selected != 2 {
		t.Fatalf("expected selection on last provider, got %d", s.list.Selected)
	}
	if s.list.Top < 0 || s.list.Top > s.list.Selected {
		t.Fatalf("viewport out of bounds: %+v", s.list)
	}
}

func TestModel_CopyProviderURL(t *testing.T) {
	m, _ := newTestModel(t)
	var copied string
	m.copyURLFn = func(s string) error {
		copied = s
		return nil
	}
	m, cmd := press(t, m, keyDown, runeKey('y'))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if copied != "http://b.example.com/epg.xml.gz" {
		t.Fatalf("unexpected copied URL: %q", copied)
	}
	if !strings.Contains(m.View(), "URL copied to clipboard") {
		t.Fatalf("expected copy status, got:\n%s", m.View())
	}
}

func TestModel_CopyFailureShowsCause(t *testing.T) {
	m, _ := newTestModel(t)
	m.copyURLFn = func(string) error { return platform.ErrNoClipboard }
	m, cmd := press(t, m, runeKey('y'))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if !m.statusErr || !strings.Contains(m.status, platform.ErrNoClipboard.Error()) {
		t.Fatalf("expected clipboard error in status, got %q err=%v", m.status, m.statusErr)
	}
}

func TestModel_RandomKeysKeepViewportInvariant(t *testing.T) {
	keys := []tea.KeyMsg{
		keyUp, keyDown, keyLeft, keyRight, keyEnter, keyEsc,
		{Type: tea.KeyHome}, {Type: tea.KeyEnd}, {Type: tea.KeyPgUp}, {Type: tea.KeyPgDown},
		runeKey('c'),
	}
	rng := rand.New(rand.NewSource(1))
	for run := 0; run < 50; run++ {
		m, _ := newTestModel(t)
		next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 3 + rng.Intn(10)})
		m = next.(Model)
		for step := 0; step < 200; step++ {
			msg := keys[rng.Intn(len(keys))]
			if len(m.stack) == 1 && (msg.Type == tea.KeyLeft || msg.Type == tea.KeyEsc) {
				continue
			}
			var cmd tea.Cmd
			m, cmd = press(t, m, msg)
			if s := m.current(); s.loading && cmd != nil {
				next, _ := m.Update(actions.LoadProviderCmd(m.service, s.provider)())
				m = next.(Model)
			}
			if rng.Intn(20) == 0 {
				next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 3 + rng.Intn(10)})
				m = next.(Model)
			}
			assertViewport(t, m)
		}
	}
}

func assertViewport(t *testing.T, m Model) {
	t.Helper()
	page := m.pageSize()
	for _, s := range m.stack {
		if s.kind == screenDetail {
			if s.top < 0 || (s.top > 0 && s.top > len(s.lines)-page) {
				t.Fatalf("detail top out of range: top=%d lines=%d page=%d", s.top, len(s.lines), page)
			}
			continue
		}
		n := m.rowCount(&s)
		l := s.list
		if n == 0 {
			if l.Selected != 0 || l.Top != 0 {
				t.Fatalf("expected zero state for empty list, got %+v", l)
			}
			continue
		}
		if l.Selected < 0 || l.Selected >= n || l.Top < 0 || l.Top > l.Selected || l.Selected >= l.Top+page {
			t.Fatalf("viewport invariant broken: %+v n=%d page=%d kind=%v", l, n, page, s.kind)
		}
	}
}
