package config

import (
	"fmt"
	"strconv"
	"strings"
)

var colorKeys = [...]string{"col1", "col2", "col3", "col4"}

// cursesColors maps the curses colour constant names accepted in the INI file to
// ANSI colour numbers.
var cursesColors = map[string]string{
	"COLOR_BLACK":   "0",
	"COLOR_RED":     "1",
	"COLOR_GREEN":   "2",
	"COLOR_YELLOW":  "3",
	"COLOR_BLUE":    "4",
	"COLOR_MAGENTA": "5",
	"COLOR_CYAN":    "6",
	"COLOR_WHITE":   "7",
}

// ColorPair is a foreground/background pair of ANSI colour values.
type ColorPair struct {
	Foreground string
	Background string
}

// Colors are the four configurable styles.
type Colors struct {
	Default  ColorPair
	Selected ColorPair
	Past     ColorPair
	Status   ColorPair
}

func DefaultColors() Colors {
	return Colors{
		Default:  ColorPair{Foreground: "7", Background: "0"},
		Selected: ColorPair{Foreground: "0", Background: "7"},
		Past:     ColorPair{Foreground: "1", Background: "0"},
		Status:   ColorPair{Foreground: "2", Background: "0"},
	}
}

func (c *Colors) set(i int, pair ColorPair) {
	switch i {
	case 0:
		c.Default = pair
	case 1:
		c.Selected = pair
	case 2:
		c.Past = pair
	case 3:
		c.Status = pair
	}
}

// ParseColorPair reads "FG,BG". Each side is a curses name such as COLOR_RED or an
// ANSI number; unknown names fall back to white on black.
func ParseColorPair(raw string) (ColorPair, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return ColorPair{}, fmt.Errorf("color pair %q: want FOREGROUND,BACKGROUND", raw)
	}
	return ColorPair{
		Foreground: colorValue(parts[0], "7"),
		Background: colorValue(parts[1], "0"),
	}, nil
}

func colorValue(raw, fallback string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if v, ok := cursesColors[name]; ok {
		return v
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && n <= 255 {
		return name
	}
	return fallback
}
