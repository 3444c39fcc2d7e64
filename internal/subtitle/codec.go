package subtitle

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format names a supported subtitle format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// Codec reads and writes one caption file format.
type Codec interface {
	Format() Format
	// Decode always returns a built document. Broken blocks are skipped
	// and reported in Document.Warnings.
	Decode(name string, lines []string) *Document
	// Encode returns false when doc has not been built.
	Encode(doc *Document) ([]string, bool)
}

var newlineRegex = regexp.MustCompile(`\r?\n`)

// DecodeString splits text on \n or \r\n and decodes the lines.
func DecodeString(c Codec, name, text string) *Document {
	return c.Decode(name, newlineRegex.Split(text, -1))
}

// DecodeReader reads all of r and decodes it. A byte order mark selects
// UTF-16 when present and is dropped; anything else is taken as UTF-8.
func DecodeReader(c Codec, name string, r io.Reader) (*Document, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return DecodeString(c, name, string(data)), nil
}

// EncodeString encodes doc and joins the lines with \n.
func EncodeString(c Codec, doc *Document) (string, bool) {
	lines, ok := c.Encode(doc)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), true
}

var codecs = map[Format]Codec{
	FormatSRT: SRTCodec{},
	FormatVTT: VTTCodec{},
	FormatASS: ASSCodec{},
}

// Lookup returns the codec for format.
func Lookup(format Format) (Codec, error) {
	c, ok := codecs[Format(strings.ToLower(string(format)))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return c, nil
}

// ForPath picks a codec from the file extension.
func ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return codecs[FormatSRT], nil
	case ".vtt":
		return codecs[FormatVTT], nil
	case ".ass", ".ssa":
		return codecs[FormatASS], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatSRT, FormatVTT, FormatASS}
}

// ExtensionFor returns the file extension written for format.
func ExtensionFor(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ""
	}
}

// IsCaptionFile reports whether path has an extension ForPath accepts.
func IsCaptionFile(path string) bool {
	_, err := ForPath(path)
	return err == nil
}
