package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/se-bastiaan/captionconvert/internal/convert"
	"github.com/se-bastiaan/captionconvert/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Convert caption files as they appear in a directory",
	Long: `Watch an input directory and convert every caption file that is
created or rewritten there into the output directory.

Directories, format, offset and concurrency default to the config file.

Examples:
  captionconvert watch
  captionconvert watch --input incoming --output converted -f srt
  captionconvert watch --concurrency 4 --offset 250`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().
		String("input", "", "Directory to watch (default: config watch.input)")
	watchCmd.Flags().
		String("output", "", "Directory for converted files (default: config watch.output)")
	watchCmd.Flags().
		StringP("format", "f", "", "Output caption format (vtt, srt, ass)")
	watchCmd.Flags().
		Int("concurrency", 0, "Number of parallel conversions (default: config watch.max_concurrent)")
	watchCmd.Flags().
		Int("offset", 0, "Milliseconds added to every caption time")
}

func runWatch(cmd *cobra.Command, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input")
	outputDir, _ := cmd.Flags().GetString("output")
	formatStr, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if inputDir == "" {
		inputDir = cfg.Watch.Input
	}
	if outputDir == "" {
		outputDir = cfg.Watch.Output
	}
	if concurrency <= 0 {
		concurrency = cfg.Watch.MaxConcurrent
	}

	absIn, _ := filepath.Abs(inputDir)
	absOut, _ := filepath.Abs(outputDir)
	if absIn == absOut {
		return fmt.Errorf("input and output directories must differ: %s", absIn)
	}

	format, err := resolveFormat(formatStr)
	if err != nil {
		return err
	}

	for _, dir := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	conv, err := convert.New(logger, convert.Options{
		Target: format,
		Offset: resolveOffset(cmd),
	})
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}

	handler := func(ctx context.Context, path string) error {
		output := convert.OutputPath(path, outputDir, conv.Target())
		res, err := conv.ConvertFile(ctx, path, output)
		if err != nil {
			return err
		}
		logger.Infow("Converted caption file",
			"input", res.Input,
			"output", res.Output,
			"captions", res.Captions,
			"warnings", len(res.Warnings),
		)
		return nil
	}

	w, err := watcher.New(inputDir, handler, logger, concurrency)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = w.Stop()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("Press Ctrl+C to stop",
		"input", inputDir,
		"output", outputDir,
		"format", format,
	)

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher failed: %w", err)
	}
	return nil
}
