package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/convert"
	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/format"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input_file]",
	Short: "Convert a caption file to another format",
	Long: `Convert a subtitle or caption file between SRT, WebVTT, ASS, JSON,
and CSV. The source format is auto-detected unless --from is given;
the target format comes from --to or the output file extension.

Examples:
  subweave convert captions.srt -o captions.vtt
  subweave convert captions.vtt --to ass
  subweave convert export.csv --from csv --to json -o captions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("from", "f", "auto", "Source format (srt, vtt, ass, json, csv, auto)")
	convertCmd.Flags().
		StringP("to", "t", "", "Target format (srt, vtt, ass, json, csv)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	from, err := parseFormatFlag(fromFlag, true)
	if err != nil {
		return err
	}

	to, err := resolveTargetFormat(toFlag, outputPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	logger.Infow("Converting",
		"input", inputPath,
		"from", from,
		"to", to,
	)

	out, err := convert.Convert(string(raw), from, to)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if outputPath == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Converted to %s: %s\n", to, absOutput)
	return nil
}

// parseFormatFlag validates a format name. allowAuto admits "auto" and
// the empty string.
func parseFormatFlag(name string, allowAuto bool) (document.Format, error) {
	f := document.Format(strings.ToLower(strings.TrimSpace(name)))
	if allowAuto && (f == document.FormatAuto || f == "") {
		return document.FormatAuto, nil
	}
	if !document.KnownFormat(f) || f == document.FormatAuto {
		return "", fmt.Errorf(
			"invalid format %q: supported formats are srt, vtt, ass, json, csv",
			name,
		)
	}
	return f, nil
}

// resolveTargetFormat picks the target from --to, falling back to the
// output file extension.
func resolveTargetFormat(toFlag, outputPath string) (document.Format, error) {
	if toFlag != "" {
		return parseFormatFlag(toFlag, false)
	}
	if outputPath != "" {
		ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
		if f := format.FromExtension(ext); f != "" {
			return f, nil
		}
		return "", fmt.Errorf(
			"cannot infer target format from extension %q: use --to",
			ext,
		)
	}
	return "", fmt.Errorf("target format required: use --to or -o with a known extension")
}
