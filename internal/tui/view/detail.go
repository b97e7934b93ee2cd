package view

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/glabrego/epgi/internal/xmltv"
)

const NoAttributesLine = "No attributes found for this programme."

const defaultWrapWidth = 78

// DetailWrapWidth leaves a one-cell margin on both sides of wide terminals.
func DetailWrapWidth(termWidth int) int {
	switch {
	case termWidth <= 0:
		return defaultWrapWidth
	case termWidth > 4:
		return termWidth - 2
	default:
		return termWidth
	}
}

// AttributeLines renders attrs as "key: value" blocks in key order. Lists are
// joined with ", ", continuation lines are indented under the value and every
// block is followed by a blank line.
func AttributeLines(attrs xmltv.Attributes, width int) []string {
	if len(attrs) == 0 {
		return []string{NoAttributesLine}
	}
	lines := make([]string, 0, 3*len(attrs))
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		lines = append(lines, WrapHanging(attrs[key].Join(", "), width, key+": ")...)
		lines = append(lines, "")
	}
	return lines
}

// WrapHanging wraps text to width cells, starting the first line with prefix and
// indenting the rest by the prefix width. Words longer than a line are broken.
func WrapHanging(text string, width int, prefix string) []string {
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{strings.TrimRight(prefix, " ")}
	}

	var lines []string
	line, empty := prefix, true
	for _, word := range words {
		for word != "" {
			used := runewidth.StringWidth(line)
			sep := 1
			if empty {
				sep = 0
			}
			if used+sep+runewidth.StringWidth(word) <= width {
				if !empty {
					line += " "
				}
				line += word
				empty = false
				word = ""
				continue
			}
			if !empty {
				lines = append(lines, line)
				line, empty = indent, true
				continue
			}
			head := runewidth.Truncate(word, max(1, width-used), "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			lines = append(lines, line+head)
			word = word[len(head):]
			line = indent
		}
	}
	if !empty {
		lines = append(lines, line)
	}
	return lines
}
