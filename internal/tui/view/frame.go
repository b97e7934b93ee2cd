package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Frame is a fixed-size grid of text rows that screens draw into before it is
// presented as one string.
type Frame struct {
	rows  int
	cols  int
	lines []string
}

// NewFrame allocates a blank frame. A cols of 0 disables truncation.
func NewFrame(rows, cols int) *Frame {
	f := &Frame{rows: max(0, rows), cols: max(0, cols)}
	f.Clear()
	return f
}

func (f *Frame) Size() (rows, cols int) {
	return f.rows, f.cols
}

func (f *Frame) Clear() {
	f.lines = make([]string, f.rows)
}

// DrawLine replaces row with text starting at col. The text is cut to the frame
// width and padded to it so that background colours span the row.
func (f *Frame) DrawLine(row, col int, text string, style lipgloss.Style) {
	if row < 0 || row >= f.rows {
		return
	}
	col = max(0, col)
	if f.cols > 0 {
		if col >= f.cols {
			return
		}
		text = Fit(text, f.cols-col)
	}
	f.lines[row] = strings.Repeat(" ", col) + style.Render(text)
}

// DrawRaw replaces row with text that is already styled and sized, such as the
// output of a bubbles component.
func (f *Frame) DrawRaw(row int, text string) {
	if row < 0 || row >= f.rows {
		return
	}
	f.lines[row] = text
}

// String presents the frame.
func (f *Frame) String() string {
	return strings.Join(f.lines, "\n")
}

// ListBody describes the visible window of a list screen.
type ListBody struct {
	FirstRow int
	Count    int
	Top      int
	Page     int
	Selected int
	// Row returns the text of list row i and whether it belongs in the past.
	Row func(i int) (text string, past bool)
}

// DrawList draws rows [Top, Top+Page) of a list starting at FirstRow.
func DrawList(f *Frame, body ListBody, styleFor func(selected, past bool) lipgloss.Style) {
	if body.Count <= 0 || body.Top < 0 || body.Row == nil {
		return
	}
	end := min(body.Count, body.Top+body.Page)
	for i := body.Top; i < end; i++ {
		text, past := body.Row(i)
		f.DrawLine(body.FirstRow+i-body.Top, 0, text, styleFor(i == body.Selected, past))
	}
}

// Fit truncates or pads s to exactly width terminal cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}
