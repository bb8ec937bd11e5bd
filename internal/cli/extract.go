package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/format"
	"github.com/subweave/subweave/internal/media"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle track from a video",
	Long: `Demux a subtitle stream out of a video container into a standalone
caption file. Use "subweave streams" to see which tracks a container
carries.

Examples:
  subweave extract movie.mkv
  subweave extract movie.mkv -o movie.vtt
  subweave extract movie.mkv --stream 1 --to ass -o signs.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var streamsCmd = &cobra.Command{
	Use:   "streams [video_file]",
	Short: "List a video's embedded subtitle tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreams,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(streamsCmd)

	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream index (0 = first)")
	extractCmd.Flags().
		StringP("to", "t", "", "Output format (srt, vtt, ass); defaults from output extension")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	stream, _ := cmd.Flags().GetInt("stream")
	toFlag, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	opts := media.DefaultExtractOptions()
	opts.StreamIndex = stream

	if toFlag != "" {
		to, err := parseFormatFlag(toFlag, false)
		if err != nil {
			return err
		}
		opts.Format = to
	} else if outputPath != "" {
		ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
		if f := format.FromExtension(ext); f != "" {
			opts.Format = f
		}
	}

	if outputPath == "" {
		base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		outputPath = base + format.Extension(opts.Format)
	}

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"output", outputPath,
		"stream", stream,
		"format", opts.Format,
	)

	ctx := context.Background()
	if err := media.ExtractSubtitles(ctx, videoPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles extracted: %s\n", absOutput)
	return nil
}

func runStreams(cmd *cobra.Command, args []string) error {
	streams, err := media.ListSubtitleStreams(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(streams) == 0 {
		fmt.Println("No subtitle streams found")
		return nil
	}

	for _, s := range streams {
		line := fmt.Sprintf("%d: %s", s.Index, s.Codec)
		if s.Language != "" {
			line += " [" + s.Language + "]"
		}
		if s.Title != "" {
			line += " " + s.Title
		}
		fmt.Println(line)
	}
	return nil
}
