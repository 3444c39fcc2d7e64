package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a caption time in milliseconds from zero. An int32 holds
// about 24.8 days, which is plenty for any caption file.
type Timestamp int32

// MaxTimestamp is the largest representable caption time.
const MaxTimestamp = Timestamp(math.MaxInt32)

// Layout names a textual timestamp encoding.
type Layout string

const (
	// 01:02:22,501 (SubRip)
	LayoutSRT Layout = "hh:mm:ss,ms"
	// 01:02:22.501 (WebVTT). Parsing reads one hour digit and centiseconds.
	LayoutVTT Layout = "hh:mm:ss.ms"
	// 1:02:22.50 (ASS/SSA)
	LayoutASS Layout = "h:mm:ss.cs"
	// 1:2:22:12/25, frame count at a frame rate. Input only.
	LayoutFrames Layout = "h:m:s:f/fps"

	// frame based output layouts, combine with WithFPS
	LayoutSTL      Layout = "hhmmssff"
	LayoutSTLColon Layout = "h:m:s:f"
	LayoutSCC      Layout = "hh:mm:ss:ff"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrUnknownLayout    = errors.New("unknown timestamp layout")
)

// ParseError reports a timestamp that does not match its layout.
type ParseError struct {
	Layout Layout
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q as %s: %s", e.Value, e.Layout, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidTimestamp
}

// fixed width shapes, '0' stands for a digit
const (
	shapeSRT = "00:00:00,000"
	shapeVTT = "00:00:00.000"
	shapeASS = "0:00:00.00"
)

// WithFPS appends a frame rate to a frame based layout, e.g. "hhmmssff/25".
func WithFPS(layout Layout, fps float64) Layout {
	return Layout(string(layout) + "/" + strconv.FormatFloat(fps, 'f', -1, 64))
}

// Parse converts text in the given layout to a Timestamp.
func Parse(layout Layout, value string) (Timestamp, error) {
	switch {
	case strings.EqualFold(string(layout), string(LayoutSRT)):
		if err := matchShape(layout, value, shapeSRT); err != nil {
			return 0, err
		}
		return fromFields(
			digits(value, 0, 2),
			digits(value, 3, 5),
			digits(value, 6, 8),
			digits(value, 9, 12),
		), nil

	case strings.EqualFold(string(layout), string(LayoutVTT)):
		if err := matchShape(layout, value, shapeVTT); err != nil {
			return 0, err
		}
		// only the first hour digit and two fraction digits are read
		return fromFields(
			digits(value, 0, 1),
			digits(value, 3, 5),
			digits(value, 6, 8),
			digits(value, 9, 11)*10,
		), nil

	case strings.EqualFold(string(layout), string(LayoutASS)):
		if err := matchShape(layout, value, shapeASS); err != nil {
			return 0, err
		}
		return fromFields(
			digits(value, 0, 1),
			digits(value, 2, 4),
			digits(value, 5, 7),
			digits(value, 8, 10)*10,
		), nil

	case strings.EqualFold(string(layout), string(LayoutFrames)):
		return parseFrames(layout, value)

	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}
}

// MustParse is like Parse but panics on error.
func MustParse(layout Layout, value string) Timestamp {
	ts, err := Parse(layout, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func parseFrames(layout Layout, value string) (Timestamp, error) {
	clock, rate, ok := strings.Cut(value, "/")
	if !ok {
		return 0, &ParseError{layout, value, "missing frame rate"}
	}
	fps, err := strconv.ParseFloat(rate, 64)
	if err != nil || fps <= 0 || math.IsInf(fps, 0) || math.IsNaN(fps) {
		return 0, &ParseError{layout, value, "bad frame rate"}
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 4 {
		return 0, &ParseError{layout, value, "expected h:m:s:f"}
	}
	var fields [4]int64
	for i, p := range parts {
		if p == "" || len(p) > 9 || !isDigits(p) {
			return 0, &ParseError{layout, value, "non-numeric field"}
		}
		n, _ := strconv.ParseInt(p, 10, 64)
		fields[i] = n
	}

	frames := float64(fields[3]*1000) / fps
	if math.IsNaN(frames) || frames > float64(MaxTimestamp) {
		return 0, &ParseError{layout, value, "out of range"}
	}
	ms := int64(frames) +
		fields[2]*1000 + fields[1]*60000 + fields[0]*3600000
	if ms < 0 || ms > int64(MaxTimestamp) {
		return 0, &ParseError{layout, value, "out of range"}
	}
	return Timestamp(ms), nil
}

func matchShape(layout Layout, value, shape string) error {
	if len(value) != len(shape) {
		return &ParseError{layout, value, fmt.Sprintf("expected %d characters", len(shape))}
	}
	for i := 0; i < len(shape); i++ {
		c := value[i]
		if shape[i] == '0' {
			if c < '0' || c > '9' {
				return &ParseError{layout, value, fmt.Sprintf("non-digit at offset %d", i)}
			}
		} else if c != shape[i] {
			return &ParseError{layout, value, fmt.Sprintf("expected %q at offset %d", shape[i], i)}
		}
	}
	return nil
}

// digits reads value[from:to], which matchShape already vetted.
func digits(value string, from, to int) int {
	n := 0
	for i := from; i < to; i++ {
		n = n*10 + int(value[i]-'0')
	}
	return n
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func fromFields(h, m, s, ms int) Timestamp {
	return Timestamp(ms + s*1000 + m*60000 + h*3600000)
}

// FromDuration converts d, clamped to [0, MaxTimestamp].
func FromDuration(d time.Duration) Timestamp {
	return clamp(d.Milliseconds())
}

func (t Timestamp) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// Add shifts t by ms milliseconds, clamped to [0, MaxTimestamp].
func (t Timestamp) Add(ms int) Timestamp {
	return clamp(int64(t) + int64(ms))
}

func clamp(ms int64) Timestamp {
	switch {
	case ms < 0:
		return 0
	case ms > int64(MaxTimestamp):
		return MaxTimestamp
	default:
		return Timestamp(ms)
	}
}

func (t Timestamp) clock() (h, m, s, ms int) {
	v := int(t)
	return v / 3600000, v / 60000 % 60, v / 1000 % 60, v % 1000
}

// SRT formats t as HH:MM:SS,mmm.
func (t Timestamp) SRT() string {
	h, m, s, ms := t.clock()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// VTT formats t as HH:MM:SS.mmm.
func (t Timestamp) VTT() string {
	h, m, s, ms := t.clock()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// ASS formats t as H:MM:SS.cc.
func (t Timestamp) ASS() string {
	h, m, s, ms := t.clock()
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms/10)
}

func (t Timestamp) String() string {
	return t.VTT()
}

// Format renders t in the given layout. Frame based layouts need a frame
// rate suffix, see WithFPS.
func (t Timestamp) Format(layout Layout) (string, error) {
	switch {
	case strings.EqualFold(string(layout), string(LayoutSRT)):
		return t.SRT(), nil
	case strings.EqualFold(string(layout), string(LayoutVTT)):
		return t.VTT(), nil
	case strings.EqualFold(string(layout), string(LayoutASS)):
		return t.ASS(), nil
	}

	prefix, rate, ok := strings.Cut(string(layout), "/")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}
	fps, err := strconv.ParseFloat(rate, 64)
	if err != nil || math.IsNaN(fps) || fps <= 0 || fps >= 1<<31 {
		return "", fmt.Errorf("%w: bad frame rate in %s", ErrUnknownLayout, layout)
	}

	h, m, s, ms := t.clock()
	f := ms * int(fps) / 1000
	switch Layout(prefix) {
	case LayoutSTL:
		return fmt.Sprintf("%02d%02d%02d%02d", h, m, s, f), nil
	case LayoutSTLColon:
		return fmt.Sprintf("%d:%d:%d:%d", h, m, s, f), nil
	case LayoutSCC:
		return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, f), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}
}
