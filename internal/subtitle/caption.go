package subtitle

import (
	"regexp"
	"slices"
	"strings"
)

// LineBreak separates lines inside Caption.Content.
const LineBreak = "<br />"

var tagRegex = regexp.MustCompile(`<.*?>`)

// Caption is a single timed text unit.
type Caption struct {
	Start   Timestamp
	End     Timestamp
	Content string
}

// Lines splits the content on LineBreak and strips any remaining markup.
func (c *Caption) Lines() []string {
	lines := strings.Split(c.Content, LineBreak)
	// a trailing marker does not open an empty line
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = tagRegex.ReplaceAllString(line, "")
	}
	return lines
}

// Document is a decoded caption file. Captions are keyed by their start
// time in milliseconds, iterated in ascending key order and never share a
// key.
type Document struct {
	SourceName string
	// diagnostics collected while decoding, never fatal
	Warnings []string
	// milliseconds added to every time on encode, stored captions keep
	// their own times
	Offset int
	// set once decoding finished, encoders refuse unbuilt documents
	Built bool

	captions map[int]*Caption
	keys     []int
}

func NewDocument(sourceName string) *Document {
	return &Document{
		SourceName: sourceName,
		captions:   make(map[int]*Caption),
	}
}

// Warn appends a diagnostic.
func (d *Document) Warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

// Insert stores c under its start time. When that key is taken the key is
// bumped by one millisecond until it is free; the caption's own times are
// left alone. Returns the key used.
func (d *Document) Insert(c *Caption) int {
	if d.captions == nil {
		d.captions = make(map[int]*Caption)
	}

	key := int(c.Start)
	for {
		if _, taken := d.captions[key]; !taken {
			break
		}
		key++
	}
	if key != int(c.Start) {
		d.Warn("caption with same start time found...\n\n")
	}

	d.captions[key] = c
	pos, _ := slices.BinarySearch(d.keys, key)
	d.keys = slices.Insert(d.keys, pos, key)
	return key
}

func (d *Document) Len() int {
	return len(d.keys)
}

// Keys returns the caption keys in ascending order.
func (d *Document) Keys() []int {
	return slices.Clone(d.keys)
}

func (d *Document) Get(key int) (*Caption, bool) {
	c, ok := d.captions[key]
	return c, ok
}

// Captions returns the captions in ascending key order.
func (d *Document) Captions() []*Caption {
	out := make([]*Caption, 0, len(d.keys))
	for _, key := range d.keys {
		out = append(out, d.captions[key])
	}
	return out
}

// shifted returns the caption times with the document offset applied.
func (d *Document) shifted(c *Caption) (Timestamp, Timestamp) {
	if d.Offset == 0 {
		return c.Start, c.End
	}
	return c.Start.Add(d.Offset), c.End.Add(d.Offset)
}
