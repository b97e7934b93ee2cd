package xmltv

import (
	"strings"
	"time"
)

// UntitledProgramme is used when a programme has no title element.
const UntitledProgramme = "No Title"

// ValueKind tells whether a Value holds one text or several.
type ValueKind int

const (
	ValueScalar ValueKind = iota
	ValueList
)

// Value is a programme attribute: a single text, or the ordered texts of a
// repeated child tag.
type Value struct {
	Kind  ValueKind
	Items []string
}

func Scalar(text string) Value {
	return Value{Kind: ValueScalar, Items: []string{text}}
}

func List(texts ...string) Value {
	return Value{Kind: ValueList, Items: append([]string(nil), texts...)}
}

// Append returns v with text added, promoting a scalar to a list.
func (v Value) Append(text string) Value {
	items := make([]string, 0, len(v.Items)+1)
	items = append(items, v.Items...)
	items = append(items, text)
	return Value{Kind: ValueList, Items: items}
}

// Join renders the value as one line of text.
func (v Value) Join(sep string) string {
	switch v.Kind {
	case ValueList:
		return strings.Join(v.Items, sep)
	default:
		if len(v.Items) == 0 {
			return ""
		}
		return v.Items[0]
	}
}

type Attributes map[string]Value

// Programme is one scheduled broadcast.
type Programme struct {
	Title      string
	Start      time.Time
	Stop       time.Time
	Attributes Attributes
}

// AiringAt reports whether start <= now < stop.
func (p Programme) AiringAt(now time.Time) bool {
	return !now.Before(p.Start) && now.Before(p.Stop)
}

// EndedBefore reports whether the programme stopped before now.
func (p Programme) EndedBefore(now time.Time) bool {
	return p.Stop.Before(now)
}

type Channel struct {
	ID         string
	Name       string
	Programmes []Programme
}

// Snapshot is the parsed guide of one provider. An empty snapshot stands in for a
// feed that could not be loaded.
type Snapshot struct {
	URL      string
	Channels []Channel
}

func (s Snapshot) Empty() bool {
	return len(s.Channels) == 0
}
