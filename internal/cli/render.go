package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [input_file]",
	Short: "Render a caption file for display consumers",
	Long: `Project a caption file into a display-oriented shape: an HTML
overlay fragment, a compact JSON feed for embedded players, or a
verbose JSON dump with styles resolved inline.

Examples:
  subweave render captions.ass --mode html -o overlay.html
  subweave render captions.srt --mode compact
  subweave render captions.vtt --mode verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().
		StringP("from", "f", "auto", "Source format (srt, vtt, ass, json, csv, auto)")
	renderCmd.Flags().
		StringP("mode", "m", "html", "Render mode (html, compact, verbose)")
}

func runRender(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	outputPath, _ := cmd.Flags().GetString("output")

	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	var out string
	switch mode {
	case "html":
		out = render.HTML(doc)
	case "compact":
		out, err = render.CompactJSON(doc)
	case "verbose":
		out, err = render.VerboseJSON(doc)
	default:
		return fmt.Errorf(
			"invalid mode %q: supported modes are html, compact, verbose",
			mode,
		)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if outputPath == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Rendered %s: %s\n", mode, absOutput)
	return nil
}
