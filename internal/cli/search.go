package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/editor"
	"github.com/subweave/subweave/internal/timecode"
)

var searchCmd = &cobra.Command{
	Use:   "search [input_file] [query]",
	Short: "Find cues matching a text query",
	Long: `Search a caption file's cue text and print the matches with their
indices and timings.

Examples:
  subweave search captions.srt "hello"
  subweave search captions.srt '\bDr\.\s+\w+' --regex
  subweave search captions.ass sign --style Signs --content`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().
		StringP("from", "f", "auto", "Source format (srt, vtt, ass, json, csv, auto)")
	searchCmd.Flags().BoolP("regex", "r", false, "Treat the query as a regular expression")
	searchCmd.Flags().BoolP("case-sensitive", "c", false, "Match case exactly")
	searchCmd.Flags().Bool("content", false, "Also match raw formatted content")
	searchCmd.Flags().StringSlice("style", nil, "Restrict to cues using these styles")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[1]

	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}

	opts := editor.SearchOptions{}
	opts.Regex, _ = cmd.Flags().GetBool("regex")
	opts.CaseSensitive, _ = cmd.Flags().GetBool("case-sensitive")
	opts.IncludeContent, _ = cmd.Flags().GetBool("content")
	opts.Styles, _ = cmd.Flags().GetStringSlice("style")

	ed := editor.New(doc)
	indices, err := ed.Search(query, opts)
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		return fmt.Errorf("no matches for %q", query)
	}

	for _, index := range indices {
		cue, err := ed.Cue(index)
		if err != nil {
			return err
		}
		fmt.Printf("%d  %s --> %s  %s\n",
			index,
			timecode.FromMs(cue.StartTime, timecode.FormatVTT),
			timecode.FromMs(cue.EndTime, timecode.FormatVTT),
			cue.Text,
		)
	}
	return nil
}
