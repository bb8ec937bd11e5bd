package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/detect"
)

var detectCmd = &cobra.Command{
	Use:   "detect [input_file]",
	Short: "Identify a caption file's format",
	Long: `Inspect a file's content and report which caption format it is,
with a confidence score and the signals that drove the decision.

Examples:
  subweave detect mystery_file
  subweave detect captions.txt --min-confidence 0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().
		Float64P("min-confidence", "m", 0, "Fail unless confidence reaches this threshold")
}

func runDetect(cmd *cobra.Command, args []string) error {
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	result := detect.Detect(string(raw))
	if result.Format == "" {
		return fmt.Errorf("format not recognized: %s", args[0])
	}
	if result.Confidence < minConfidence {
		return fmt.Errorf(
			"detected %s at confidence %.2f, below threshold %.2f",
			result.Format,
			result.Confidence,
			minConfidence,
		)
	}

	fmt.Printf("Format:     %s\n", result.Format)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	if len(result.Reasons) > 0 {
		fmt.Printf("Signals:    %s\n", strings.Join(result.Reasons, "; "))
	}
	return nil
}
