package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

const vttHeader = "WEBVTT"

// VTTCodec reads and writes WebVTT.
type VTTCodec struct{}

func (VTTCodec) Format() Format {
	return FormatVTT
}

func (VTTCodec) Decode(name string, lines []string) *Document {
	return blockDecoder{layout: LayoutVTT, header: vttHeader}.decode(name, lines)
}

func (VTTCodec) Encode(doc *Document) ([]string, bool) {
	if doc == nil || !doc.Built {
		return nil, false
	}

	out := make([]string, 0, 2+5*doc.Len())
	out = append(out, vttHeader, "")
	for i, c := range doc.Captions() {
		start, end := doc.shifted(c)
		out = append(out,
			strconv.Itoa(i+1),
			start.VTT()+" --> "+end.VTT(),
		)
		out = append(out, c.Lines()...)
		out = append(out, "")
	}
	return out, true
}

// blockDecoder walks numbered caption blocks:
//
//	1
//	00:00:01.000 --> 00:00:02.000
//	text
//	<blank>
//
// A broken block is reported and skipped up to the next blank line.
type blockDecoder struct {
	layout Layout
	// optional header block skipped before the first caption
	header string
}

const timeWidth = 12

func (b blockDecoder) decode(name string, lines []string) *Document {
	doc := NewDocument(name)
	defer func() {
		doc.Built = true
	}()

	at := func(i int) string {
		line := lines[i]
		if i == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		return strings.TrimSpace(line)
	}
	skipBlock := func(i int) int {
		for i < len(lines) && at(i) != "" {
			i++
		}
		return i
	}

	i := 0
	if b.header != "" {
		for i < len(lines) && at(i) == "" {
			i++
		}
		if i < len(lines) && strings.HasPrefix(at(i), b.header) {
			i = skipBlock(i)
		}
	}

	next := 1
	for i < len(lines) {
		if at(i) == "" {
			i++
			continue
		}

		num, err := strconv.Atoi(at(i))
		if err != nil || num != next {
			doc.Warn(fmt.Sprintf(
				"%d expected at line %d\n skipping to next line\n\n",
				next,
				i+1,
			))
			i = skipBlock(i)
			continue
		}
		next++

		i++
		if i >= len(lines) {
			doc.Warn(unexpectedEOF)
			return doc
		}
		start, end, err := b.times(at(i))
		if err != nil {
			doc.Warn(fmt.Sprintf("incorrect time format at line %d", i+1))
			i = skipBlock(i)
			continue
		}

		i++
		if i >= len(lines) {
			doc.Warn(unexpectedEOF)
			return doc
		}
		var text []string
		for i < len(lines) && at(i) != "" {
			text = append(text, at(i))
			i++
		}

		doc.Insert(&Caption{
			Start:   start,
			End:     end,
			Content: strings.Join(text, LineBreak),
		})
	}

	return doc
}

const unexpectedEOF = "unexpected end of file, maybe last caption is not complete.\n\n"

// times reads the first and last timeWidth characters of a timing line.
func (b blockDecoder) times(line string) (Timestamp, Timestamp, error) {
	if len(line) < timeWidth {
		return 0, 0, &ParseError{b.layout, line, "timing line too short"}
	}
	start, err := Parse(b.layout, line[:timeWidth])
	if err != nil {
		return 0, 0, err
	}
	end, err := Parse(b.layout, line[len(line)-timeWidth:])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
