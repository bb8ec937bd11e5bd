package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/editor"
)

var validateCmd = &cobra.Command{
	Use:   "validate [input_file]",
	Short: "Check a caption file for timing and content problems",
	Long: `Parse a caption file and run consistency checks: inverted or
negative timecodes, empty cues, overlaps, reading-speed heuristics.

Errors fail the command; warnings are reported but do not.

Examples:
  subweave validate captions.srt
  subweave validate captions.vtt --min-duration 1000 --max-lines 3
  subweave validate captions.ass --no-overlap-check`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	defaults := editor.DefaultConfig()
	validateCmd.Flags().
		StringP("from", "f", "auto", "Source format (srt, vtt, ass, json, csv, auto)")
	validateCmd.Flags().
		Int64("min-duration", defaults.MinDurationMs, "Warn below this cue duration in ms (0 disables)")
	validateCmd.Flags().
		Int64("max-duration", defaults.MaxDurationMs, "Warn above this cue duration in ms (0 disables)")
	validateCmd.Flags().
		Int64("max-gap", 0, "Warn on silent gaps longer than this in ms (0 disables)")
	validateCmd.Flags().
		Int("max-lines", defaults.MaxLines, "Warn above this many lines per cue (0 disables)")
	validateCmd.Flags().
		Int("max-line-length", defaults.MaxLineLength, "Warn above this many characters per line (0 disables)")
	validateCmd.Flags().Bool("no-overlap-check", false, "Skip the cue overlap check")
	validateCmd.Flags().Bool("no-empty-check", false, "Skip the empty cue check")
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	cfg := editor.DefaultConfig()
	cfg.MinDurationMs, _ = cmd.Flags().GetInt64("min-duration")
	cfg.MaxDurationMs, _ = cmd.Flags().GetInt64("max-duration")
	cfg.MaxGapMs, _ = cmd.Flags().GetInt64("max-gap")
	cfg.MaxLines, _ = cmd.Flags().GetInt("max-lines")
	cfg.MaxLineLength, _ = cmd.Flags().GetInt("max-line-length")
	if skip, _ := cmd.Flags().GetBool("no-overlap-check"); skip {
		cfg.CheckOverlap = false
	}
	if skip, _ := cmd.Flags().GetBool("no-empty-check"); skip {
		cfg.CheckEmpty = false
	}

	result := editor.ValidateDocument(doc, cfg)

	for _, issue := range result.Errors {
		fmt.Printf("error   cue %d  %s: %s\n",
			issue.CueIndex+1, issue.Code, issue.Message)
	}
	for _, issue := range result.Warnings {
		fmt.Printf("warning cue %d  %s: %s\n",
			issue.CueIndex+1, issue.Code, issue.Message)
	}

	if !result.IsValid {
		return fmt.Errorf(
			"%d error(s), %d warning(s)",
			len(result.Errors),
			len(result.Warnings),
		)
	}

	fmt.Printf("OK: %d cue(s), %d warning(s)\n",
		len(doc.Cues), len(result.Warnings))
	return nil
}
