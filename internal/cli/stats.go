package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/convert"
	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/timecode"
)

var statsCmd = &cobra.Command{
	Use:   "stats [input_file]",
	Short: "Summarize a caption file",
	Long: `Parse a caption file (format auto-detected unless --from is given)
and print cue counts, duration aggregates, and character totals.

Examples:
  subweave stats captions.srt
  subweave stats captions.vtt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().
		StringP("from", "f", "auto", "Source format (srt, vtt, ass, json, csv, auto)")
	statsCmd.Flags().Bool("json", false, "Emit machine-readable JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	stats := doc.Stats()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Format:        %s\n", doc.SourceFormat)
	fmt.Printf("Cues:          %d\n", stats.CueCount)
	fmt.Printf("Styles:        %d\n", stats.StyleCount)
	fmt.Printf("Characters:    %d\n", stats.CharCount)
	if stats.CueCount > 0 {
		fmt.Printf("First cue:     %s\n",
			timecode.FromMs(stats.FirstStart, timecode.FormatVTT))
		fmt.Printf("Last cue ends: %s\n",
			timecode.FromMs(stats.LastEnd, timecode.FormatVTT))
		fmt.Printf("Cue duration:  min %dms / avg %dms / max %dms\n",
			stats.MinDuration, stats.AvgDuration, stats.MaxDuration)
	}
	return nil
}

// loadDocument reads and parses a caption file honoring the --from
// flag shared by the inspection commands.
func loadDocument(cmd *cobra.Command, path string) (*document.Document, error) {
	fromFlag, _ := cmd.Flags().GetString("from")
	from, err := parseFormatFlag(fromFlag, true)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	doc, err := convert.Parse(string(raw), from)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
