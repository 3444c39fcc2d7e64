package cli

import (
	"fmt"

	"github.com/se-bastiaan/captionconvert/internal/subtitle"
	"github.com/spf13/cobra"
)

var formatLayouts = map[subtitle.Format]subtitle.Layout{
	subtitle.FormatSRT: subtitle.LayoutSRT,
	subtitle.FormatVTT: subtitle.LayoutVTT,
	subtitle.FormatASS: subtitle.LayoutASS,
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported caption formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, format := range subtitle.Formats() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-5s %s\n",
				format,
				subtitle.ExtensionFor(format),
				formatLayouts[format],
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
