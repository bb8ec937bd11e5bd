package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subweave/subweave/internal/media"
)

var embedCmd = &cobra.Command{
	Use:   "embed [video_file] [subtitle_file]",
	Short: "Mux a caption file into a video as a soft subtitle track",
	Long: `Add a caption file to a video container as a selectable subtitle
track. Video and audio streams are copied without re-encoding.

Examples:
  subweave embed movie.mkv captions.srt -o movie.subbed.mkv
  subweave embed movie.mp4 captions.srt -o movie.subbed.mp4 --language eng`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().
		StringP("language", "l", "", "Language tag for the new track (e.g., eng, spa)")
	embedCmd.Flags().
		String("title", "", "Display title for the new track")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	videoPath, subtitlePath := args[0], args[1]

	language, _ := cmd.Flags().GetString("language")
	title, _ := cmd.Flags().GetString("title")
	outputPath, _ := cmd.Flags().GetString("output")

	if outputPath == "" {
		ext := filepath.Ext(videoPath)
		outputPath = strings.TrimSuffix(videoPath, ext) + ".subbed" + ext
	}

	logger.Infow("Embedding subtitles",
		"video", videoPath,
		"subtitles", subtitlePath,
		"output", outputPath,
	)

	opts := media.EmbedOptions{Language: language, Title: title}
	ctx := context.Background()
	if err := media.EmbedSubtitles(
		ctx,
		videoPath,
		subtitlePath,
		outputPath,
		opts,
	); err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles embedded: %s\n", absOutput)
	return nil
}
