// Package guide projects a parsed EPG snapshot into the rows the viewer shows:
// what is airing now, name filtering, and programme progress.
package guide

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/glabrego/epgi/internal/xmltv"
)

// ProgressWidth is the number of cells in a progress bar.
const ProgressWidth = 10

// NowRow pairs a channel with the programme it is airing.
type NowRow struct {
	Channel   *xmltv.Channel
	Programme xmltv.Programme
	// Index is the programme's position in Channel.Programmes.
	Index int
}

// Current returns the first programme of ch with start <= now < stop. Programmes
// are assumed sorted by start but not necessarily disjoint; the first match wins.
func Current(ch xmltv.Channel, now time.Time) (xmltv.Programme, int, bool) {
	for i, p := range ch.Programmes {
		if p.AiringAt(now) {
			return p, i, true
		}
	}
	return xmltv.Programme{}, -1, false
}

// NowPlaying builds one row per channel that airs something at now. Channels with
// nothing on air are left out.
func NowPlaying(channels []xmltv.Channel, now time.Time) []NowRow {
	rows := make([]NowRow, 0, len(channels))
	for i := range channels {
		p, idx, ok := Current(channels[i], now)
		if !ok {
			continue
		}
		rows = append(rows, NowRow{Channel: &channels[i], Programme: p, Index: idx})
	}
	return rows
}

// Filter matches channel names case-insensitively using the lower-casing rules of a
// locale.
type Filter struct {
	tag language.Tag
}

func NewFilter(tag language.Tag) Filter {
	return Filter{tag: tag}
}

// Apply keeps rows whose channel name contains text. An empty text returns rows
// itself.
func (f Filter) Apply(rows []NowRow, text string) []NowRow {
	if text == "" {
		return rows
	}
	lower := cases.Lower(f.tag)
	needle := lower.String(text)
	out := make([]NowRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(lower.String(row.Channel.Name), needle) {
			out = append(out, row)
		}
	}
	return out
}

// Percent is the elapsed share of p at now, rounded and clamped to [0, 100]. A
// programme without positive duration is at 0.
func Percent(p xmltv.Programme, now time.Time) int {
	duration := p.Stop.Sub(p.Start)
	if duration <= 0 {
		return 0
	}
	elapsed := now.Sub(p.Start)
	pct := int(math.Round(100 * elapsed.Seconds() / duration.Seconds()))
	return min(100, max(0, pct))
}

// Bar renders percent as width cells, floor(width*percent/100) of them filled.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = min(100, max(0, percent))
	filled := width * percent / 100
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}

// Progress returns Percent and a ProgressWidth bar for p at now.
func Progress(p xmltv.Programme, now time.Time) (int, string) {
	pct := Percent(p, now)
	return pct, Bar(pct, ProgressWidth)
}
