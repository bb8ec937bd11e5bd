package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/editor"
)

var shiftCmd = &cobra.Command{
	Use:   "shift [input_file]",
	Short: "Retime a caption file",
	Long: `Shift every cue by a fixed offset, scale all times by a factor, or
both. Shifts apply before scaling; times never go below zero.

Examples:
  subweave shift captions.srt --by 1500 -o delayed.srt
  subweave shift captions.srt --by -2000
  subweave shift pal.srt --scale 1.042708 -o ntsc.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runShift,
}

func init() {
	rootCmd.AddCommand(shiftCmd)

	shiftCmd.Flags().
		StringP("from", "f", "auto", "Source format (srt, vtt, ass, json, csv, auto)")
	shiftCmd.Flags().Int64P("by", "b", 0, "Offset in milliseconds, may be negative")
	shiftCmd.Flags().Float64P("scale", "s", 1, "Time scale factor")
}

func runShift(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	by, _ := cmd.Flags().GetInt64("by")
	scale, _ := cmd.Flags().GetFloat64("scale")
	outputPath, _ := cmd.Flags().GetString("output")

	if by == 0 && scale == 1 {
		return fmt.Errorf("nothing to do: pass --by and/or --scale")
	}

	doc, err := loadDocument(cmd, inputPath)
	if err != nil {
		return err
	}

	ed := editor.New(doc)
	if by != 0 {
		ed.ShiftTime(by)
	}
	if scale != 1 {
		if err := ed.ScaleTime(scale); err != nil {
			return err
		}
	}

	logger.Infow("Retimed",
		"input", inputPath,
		"by_ms", by,
		"scale", scale,
		"cues", ed.CueCount(),
	)

	out, err := ed.Export(doc.SourceFormat)
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Retimed %d cue(s): %s\n", ed.CueCount(), absOutput)
	return nil
}
