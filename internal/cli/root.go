package cli

import (
	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subweave",
	Short: "Subtitle format converter and editor",
	Long: `Subweave converts subtitle and caption files between SRT, WebVTT,
ASS, JSON, and CSV through a single canonical document model.

It can also inspect, validate, retime, and search caption files, and
extract or embed subtitle tracks in video containers.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
