package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/ncruces/go-strftime"

	"github.com/glabrego/epgi/internal/config"
	"github.com/glabrego/epgi/internal/guide"
)

const (
	nameColumnWidth    = 20
	percentColumnWidth = 4
	// columns of the timeline date and time labels
	dateColumnWidth = 5
	timeColumnWidth = 5
)

func ProviderLine(p config.Provider) string {
	return fmt.Sprintf("%-2d %s", p.Index, p.URL)
}

// NowLine renders a channel name, the programme on air, its percent and a
// progress bar. The title column takes whatever width is left.
func NowLine(row guide.NowRow, now time.Time, width int) string {
	pct, bar := guide.Progress(row.Programme, now)
	fixed := nameColumnWidth + percentColumnWidth + guide.ProgressWidth + 3
	titleWidth := max(1, width-fixed)
	return strings.Join([]string{
		Fit(row.Channel.Name, nameColumnWidth),
		Fit(row.Programme.Title, titleWidth),
		fmt.Sprintf("%3d%%", pct),
		bar,
	}, " ")
}

// TimelineFormat holds the strftime patterns and zone used to label programmes.
type TimelineFormat struct {
	Date     string
	Time     string
	Location *time.Location
}

func (f TimelineFormat) label(t time.Time) (string, string) {
	if f.Location != nil {
		t = t.In(f.Location)
	}
	return strftime.Format(f.Date, t), strftime.Format(f.Time, t)
}

func TimelineLine(start time.Time, title string, format TimelineFormat) string {
	date, clock := format.label(start)
	return padRight(date, dateColumnWidth) + " " + padRight(clock, timeColumnWidth) + " " + title
}

func padRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s
	}
	return runewidth.FillRight(s, width)
}
