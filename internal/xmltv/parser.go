package xmltv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	timestampLayout = "20060102150405"
	offsetLayout    = "-0700"
)

type document struct {
	Channels   []rawChannel   `xml:"channel"`
	Programmes []rawProgramme `xml:"programme"`
}

type rawChannel struct {
	ID           string   `xml:"id,attr"`
	DisplayNames []string `xml:"display-name"`
}

type rawProgramme struct {
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []rawChild `xml:",any"`
}

type rawChild struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// Parser turns an XMLTV document into channels. Unusable channel and programme
// elements are skipped and reported through OnError.
type Parser struct {
	OnError func(err error)
}

func (p *Parser) Parse(data []byte) ([]Channel, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	byID := make(map[string]*Channel, len(doc.Channels))
	order := make([]string, 0, len(doc.Channels))
	for _, rc := range doc.Channels {
		id := strings.TrimSpace(rc.ID)
		name := ""
		if len(rc.DisplayNames) > 0 {
			name = strings.TrimSpace(rc.DisplayNames[0])
		}
		if id == "" || name == "" {
			p.report(fmt.Errorf("%w: channel %q has no id or display name", ErrMalformedEntry, rc.ID))
			continue
		}
		if existing, ok := byID[id]; ok {
			existing.Name = name
			continue
		}
		byID[id] = &Channel{ID: id, Name: name}
		order = append(order, id)
	}

	for _, rp := range doc.Programmes {
		channelID := attrValue(rp.Attrs, "channel")
		ch, ok := byID[channelID]
		if !ok {
			continue
		}
		prog, err := buildProgramme(rp)
		if err != nil {
			p.report(fmt.Errorf("channel %q: %w", channelID, err))
			continue
		}
		ch.Programmes = append(ch.Programmes, prog)
	}

	channels := make([]Channel, 0, len(order))
	for _, id := range order {
		ch := byID[id]
		slices.SortStableFunc(ch.Programmes, func(a, b Programme) int {
			return a.Start.Compare(b.Start)
		})
		channels = append(channels, *ch)
	}
	slices.SortStableFunc(channels, func(a, b Channel) int {
		return strings.Compare(a.Name, b.Name)
	})
	return channels, nil
}

func (p *Parser) report(err error) {
	if p != nil && p.OnError != nil {
		p.OnError(err)
	}
}

func buildProgramme(rp rawProgramme) (Programme, error) {
	start, err := ParseTimestamp(attrValue(rp.Attrs, "start"))
	if err != nil {
		return Programme{}, fmt.Errorf("%w: start: %v", ErrMalformedEntry, err)
	}
	stop, err := ParseTimestamp(attrValue(rp.Attrs, "stop"))
	if err != nil {
		return Programme{}, fmt.Errorf("%w: stop: %v", ErrMalformedEntry, err)
	}

	attrs := make(Attributes, len(rp.Attrs)+len(rp.Children))
	for _, a := range rp.Attrs {
		attrs[a.Name.Local] = Scalar(a.Value)
	}

	title := ""
	hasTitle := false
	for _, child := range rp.Children {
		text := strings.TrimSpace(child.Text)
		tag := child.XMLName.Local
		if tag == "title" && !hasTitle {
			hasTitle = true
			title = text
		}
		if text == "" {
			continue
		}
		if existing, ok := attrs[tag]; ok {
			attrs[tag] = existing.Append(text)
			continue
		}
		attrs[tag] = Scalar(text)
	}
	if title == "" {
		title = UntitledProgramme
	}

	return Programme{
		Title:      title,
		Start:      start,
		Stop:       stop,
		Attributes: attrs,
	}, nil
}

// ParseTimestamp reads the XMLTV "YYYYMMDDHHMMSS [+-HHMM]" form. Without an offset
// the time is taken as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if len(s) < len(timestampLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q too short", raw)
	}
	base, rest := s[:len(timestampLayout)], strings.TrimSpace(s[len(timestampLayout):])
	if rest == "" {
		t, err := time.ParseInLocation(timestampLayout, base, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", raw, err)
		}
		return t, nil
	}
	t, err := time.Parse(timestampLayout+" "+offsetLayout, base+" "+rest)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", raw, err)
	}
	return t, nil
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
