package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/se-bastiaan/captionconvert/internal/logging"
	"github.com/se-bastiaan/captionconvert/internal/subtitle"
	"go.uber.org/multierr"
)

var (
	ErrNotBuilt   = errors.New("caption document was not built")
	ErrSameOutput = errors.New("output path equals input path")
)

// conversion options
type Options struct {
	Target subtitle.Format
	// milliseconds added to every caption time in the output
	Offset int
}

// outcome of one conversion
type Result struct {
	Input    string
	Output   string
	Captions int
	Warnings []string
}

type Converter struct {
	logger *logging.Logger
	target subtitle.Codec
	offset int
}

func New(logger *logging.Logger, opts Options) (*Converter, error) {
	target, err := subtitle.Lookup(opts.Target)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{
		logger: logger,
		target: target,
		offset: opts.Offset,
	}, nil
}

// Target is the output format.
func (c *Converter) Target() subtitle.Format {
	return c.target.Format()
}

// Convert decodes r with source, applies the offset and writes the target
// encoding to w.
func (c *Converter) Convert(
	source subtitle.Codec,
	name string,
	r io.Reader,
	w io.Writer,
) (*subtitle.Document, error) {
	doc, err := subtitle.DecodeReader(source, name, r)
	if err != nil {
		return nil, err
	}

	for _, warning := range doc.Warnings {
		c.logger.Warnw("Malformed caption skipped",
			"source", name,
			"warning", strings.TrimSpace(warning),
		)
	}

	doc.Offset = c.offset
	out, ok := subtitle.EncodeString(c.target, doc)
	if !ok {
		return nil, ErrNotBuilt
	}
	if _, err := io.WriteString(w, out); err != nil {
		return nil, fmt.Errorf("failed to write %s output: %w", c.target.Format(), err)
	}
	return doc, nil
}

// ConvertFile converts input into output. The output is written to a
// temporary file next to it and renamed into place.
func (c *Converter) ConvertFile(
	ctx context.Context,
	input, output string,
) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := subtitle.ForPath(input)
	if err != nil {
		return nil, err
	}
	if samePath(input, output) {
		return nil, fmt.Errorf("%w: %s", ErrSameOutput, input)
	}

	in, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open caption file: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	if err := ensureDir(output); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(output), ".captionconvert-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to set output permissions: %w", err)
	}

	doc, err := c.Convert(source, input, in, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output: %w", closeErr)
	}
	if err != nil {
		return nil, err
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return nil, fmt.Errorf("failed to move output into place: %w", err)
	}

	c.logger.Debugw("Converted caption file",
		"input", input,
		"output", output,
		"from", source.Format(),
		"to", c.target.Format(),
		"captions", doc.Len(),
		"warnings", len(doc.Warnings),
	)

	return &Result{
		Input:    input,
		Output:   output,
		Captions: doc.Len(),
		Warnings: doc.Warnings,
	}, nil
}

// ConvertAll converts every input into outputDir, continuing past
// failures. The returned error combines all failures.
func (c *Converter) ConvertAll(
	ctx context.Context,
	inputs []string,
	outputDir string,
) ([]*Result, error) {
	var (
		results []*Result
		errs    error
	)
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return results, multierr.Append(errs, err)
		}
		output := OutputPath(input, outputDir, c.target.Format())
		res, err := c.ConvertFile(ctx, input, output)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", input, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// OutputPath swaps the extension of input for the target format's. An
// empty dir keeps the input's directory.
func OutputPath(input, dir string, target subtitle.Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+subtitle.ExtensionFor(target))
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
