package subtitle

import (
	"slices"
	"testing"
)

func TestSRTDecode(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	doc := DecodeString(SRTCodec{}, "test.srt", content)

	if doc.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", doc.Len())
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("expected no warnings, got %q", doc.Warnings)
	}

	captions := doc.Captions()
	if captions[0].Start != 1000 || captions[0].End != 4000 {
		t.Errorf("entry 0: unexpected times %v --> %v", captions[0].Start, captions[0].End)
	}
	if captions[1].Start != 5500 || captions[1].End != 8200 {
		t.Errorf("entry 1: unexpected times %v --> %v", captions[1].Start, captions[1].End)
	}
	expectedText := "This is a test.<br />With multiple lines."
	if captions[1].Content != expectedText {
		t.Errorf("entry 1: expected %q, got %q", expectedText, captions[1].Content)
	}
}

func TestSRTKeepsMilliseconds(t *testing.T) {
	doc := DecodeString(SRTCodec{}, "ms.srt", "1\n12:34:56,789 --> 12:34:57,001\nPrecise\n")
	if doc.Len() != 1 {
		t.Fatalf("expected 1 caption, got %d (warnings %q)", doc.Len(), doc.Warnings)
	}
	c := doc.Captions()[0]
	if c.Start.SRT() != "12:34:56,789" || c.End.SRT() != "12:34:57,001" {
		t.Errorf("unexpected times %s --> %s", c.Start.SRT(), c.End.SRT())
	}
}

func TestSRTEncode(t *testing.T) {
	doc := NewDocument("out.srt")
	doc.Insert(&Caption{Start: 3000, End: 4000, Content: "<i>Second</i>"})
	doc.Insert(&Caption{Start: 1000, End: 2500, Content: "First<br />line"})
	doc.Built = true
	doc.Offset = -500

	lines, ok := SRTCodec{}.Encode(doc)
	if !ok {
		t.Fatal("Encode refused a built document")
	}
	want := []string{
		"1", "00:00:00,500 --> 00:00:02,000", "First", "line", "",
		"2", "00:00:02,500 --> 00:00:03,500", "Second", "",
	}
	if !slices.Equal(lines, want) {
		t.Errorf("got %q\nwant %q", lines, want)
	}
}

func TestVTTToSRT(t *testing.T) {
	doc := DecodeString(VTTCodec{}, "in.vtt", twoBlockVTT)
	out, ok := EncodeString(SRTCodec{}, doc)
	if !ok {
		t.Fatal("Encode refused a built document")
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:03,000 --> 00:00:04,000\nWorld\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
