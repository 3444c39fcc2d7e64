package cli

import (
	"github.com/se-bastiaan/captionconvert/internal/config"
	"github.com/se-bastiaan/captionconvert/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "captionconvert",
	Short: "Convert timed caption files between formats",
	Long: `Captionconvert reads subtitle files and writes them in another
caption format.

Broken caption blocks are reported and skipped instead of aborting the
whole file. Supported formats are WebVTT, SubRip and ASS/SSA.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose {
			logger = logging.NewLogger(verbose)
			return nil
		}
		logger, err = logging.New(cfg.LogLevel)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "captionconvert.yaml", "Path to the YAML config file")
}
