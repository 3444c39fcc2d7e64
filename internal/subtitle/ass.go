package subtitle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	assFormatLine = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
	assStyleLine  = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	assDefault    = "Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1"
)

var overrideRegex = regexp.MustCompile(`\{[^}]*\}`)

// ASSCodec reads and writes Advanced SubStation Alpha. It also reads SSA.
type ASSCodec struct{}

func (ASSCodec) Format() Format {
	return FormatASS
}

// columns of the [Events] Format line that the decoder needs
type assColumns struct {
	count int
	start int
	end   int
	text  int
}

func parseASSFormat(line string) (assColumns, bool) {
	cols := assColumns{start: -1, end: -1, text: -1}
	columns := strings.Split(strings.TrimPrefix(line, "Format:"), ",")
	cols.count = len(columns)
	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "text":
			cols.text = i
		}
	}
	ok := cols.start >= 0 && cols.end >= 0 && cols.text == cols.count-1
	return cols, ok
}

func (ASSCodec) Decode(name string, lines []string) *Document {
	doc := NewDocument(name)
	defer func() {
		doc.Built = true
	}()

	var cols assColumns
	inEvents := false
	haveFormat := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if i == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inEvents = strings.EqualFold(line, "[events]")
			continue
		}
		if !inEvents {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Format:"):
			cols, haveFormat = parseASSFormat(line)
			if !haveFormat {
				doc.Warn(fmt.Sprintf("incorrect format line at line %d", i+1))
			}

		case strings.HasPrefix(line, "Dialogue:"):
			if !haveFormat {
				doc.Warn(fmt.Sprintf("incorrect dialogue at line %d", i+1))
				continue
			}
			c, err := parseDialogue(line, cols)
			if err != nil {
				doc.Warn(fmt.Sprintf("incorrect dialogue at line %d", i+1))
				continue
			}
			doc.Insert(c)
		}
	}

	if !haveFormat {
		doc.Warn("no [Events] section found\n\n")
	}
	return doc
}

func parseDialogue(line string, cols assColumns) (*Caption, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))
	fields := splitASSFields(content, cols.count)
	if len(fields) < cols.count {
		return nil, fmt.Errorf("expected %d fields, got %d", cols.count, len(fields))
	}

	start, err := Parse(LayoutASS, strings.TrimSpace(fields[cols.start]))
	if err != nil {
		return nil, err
	}
	end, err := Parse(LayoutASS, strings.TrimSpace(fields[cols.end]))
	if err != nil {
		return nil, err
	}

	text := overrideRegex.ReplaceAllString(fields[cols.text], "")
	text = strings.ReplaceAll(text, "\\N", LineBreak)
	text = strings.ReplaceAll(text, "\\n", LineBreak)

	return &Caption{Start: start, End: end, Content: text}, nil
}

// splitASSFields splits on the first n-1 commas, the last field keeps
// its commas.
func splitASSFields(content string, n int) []string {
	if n <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", n)
}

func (ASSCodec) Encode(doc *Document) ([]string, bool) {
	if doc == nil || !doc.Built {
		return nil, false
	}

	title := "Untitled"
	if doc.SourceName != "" {
		base := filepath.Base(doc.SourceName)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	out := make([]string, 0, 12+doc.Len())
	out = append(out,
		"[Script Info]",
		"Title: "+title,
		"ScriptType: v4.00+",
		"Collisions: Normal",
		"PlayDepth: 0",
		"",
		"[V4+ Styles]",
		assStyleLine,
		assDefault,
		"",
		"[Events]",
		assFormatLine,
	)

	for _, c := range doc.Captions() {
		start, end := doc.shifted(c)
		out = append(out, fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s",
			start.ASS(),
			end.ASS(),
			strings.Join(c.Lines(), "\\N"),
		))
	}
	return out, true
}
