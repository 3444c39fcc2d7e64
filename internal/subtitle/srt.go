package subtitle

import "strconv"

// SRTCodec reads and writes SubRip.
type SRTCodec struct{}

func (SRTCodec) Format() Format {
	return FormatSRT
}

func (SRTCodec) Decode(name string, lines []string) *Document {
	return blockDecoder{layout: LayoutSRT}.decode(name, lines)
}

func (SRTCodec) Encode(doc *Document) ([]string, bool) {
	if doc == nil || !doc.Built {
		return nil, false
	}

	out := make([]string, 0, 5*doc.Len())
	for i, c := range doc.Captions() {
		start, end := doc.shifted(c)
		// timestamps: 00:00:00,000 --> 00:00:00,000
		out = append(out,
			strconv.Itoa(i+1),
			start.SRT()+" --> "+end.SRT(),
		)
		out = append(out, c.Lines()...)
		out = append(out, "")
	}
	return out, true
}
