package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/se-bastiaan/captionconvert/internal/convert"
	"github.com/se-bastiaan/captionconvert/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [caption_file...]",
	Short: "Convert caption files to another format",
	Long: `Convert one or more caption files to the target format.

The source format is taken from the file extension (.vtt, .srt, .ass, .ssa).
Malformed caption blocks are skipped and reported as warnings.

Examples:
  captionconvert convert movie.srt
  captionconvert convert movie.vtt -f srt -o subs/movie.srt
  captionconvert convert *.srt --format ass --output-dir converted
  captionconvert convert movie.srt --offset -1500`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "", "Output caption format (vtt, srt, ass), defaults to config output_format")
	convertCmd.Flags().
		StringP("output", "o", "", "Output file path (single input only)")
	convertCmd.Flags().
		StringP("output-dir", "d", "", "Directory for converted files (default: next to the input)")
	convertCmd.Flags().
		Int("offset", 0, "Milliseconds added to every caption time, defaults to config offset_ms")
}

func runConvert(cmd *cobra.Command, args []string) error {
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	if outputPath != "" && len(args) > 1 {
		return fmt.Errorf("--output can only be used with a single input file")
	}

	format, err := resolveFormat(formatStr)
	if err != nil {
		return err
	}

	conv, err := convert.New(logger, convert.Options{
		Target: format,
		Offset: resolveOffset(cmd),
	})
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}

	logger.Infow("Converting captions",
		"inputs", len(args),
		"format", format,
	)

	var results []*convert.Result
	if outputPath != "" {
		res, err := conv.ConvertFile(cmd.Context(), args[0], outputPath)
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
		results = append(results, res)
	} else {
		results, err = conv.ConvertAll(cmd.Context(), args, outputDir)
	}

	for _, res := range results {
		absOutput, _ := filepath.Abs(res.Output)
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", res.Input, absOutput)
		fmt.Fprintf(cmd.OutOrStdout(), "  Captions: %d\n", res.Captions)
		if len(res.Warnings) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  Warnings: %d\n", len(res.Warnings))
		}
	}

	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	return nil
}

// resolveFormat falls back to the configured output format.
func resolveFormat(formatStr string) (subtitle.Format, error) {
	if formatStr == "" {
		formatStr = cfg.OutputFormat
	}
	format := subtitle.Format(strings.ToLower(strings.TrimSpace(formatStr)))
	if _, err := subtitle.Lookup(format); err != nil {
		return "", fmt.Errorf("unsupported format %q: use vtt, srt, or ass", formatStr)
	}
	return format, nil
}

// resolveOffset prefers an explicit --offset over the config file.
func resolveOffset(cmd *cobra.Command) int {
	if cmd.Flags().Changed("offset") {
		offset, _ := cmd.Flags().GetInt("offset")
		return offset
	}
	return cfg.OffsetMS
}
