// Package media bridges caption documents and video containers:
// probing embedded subtitle streams, demuxing one into a standalone
// caption file, and muxing a caption file back in as a soft track.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/subweave/subweave/internal/document"
	ffmpegbin "github.com/subweave/subweave/internal/ffmpeg"
)

// StreamInfo describes one embedded subtitle stream.
type StreamInfo struct {
	Index    int    // position among the container's subtitle streams
	Codec    string // subrip, ass, webvtt, mov_text, ...
	Language string
	Title    string
}

// ExtractOptions selects which stream comes out and in what format.
type ExtractOptions struct {
	StreamIndex int             // subtitle stream ordinal, 0 = first
	Format      document.Format // srt, vtt, or ass
}

func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{Format: document.FormatSRT}
}

// ListSubtitleStreams probes a container for its subtitle tracks.
func ListSubtitleStreams(ctx context.Context, videoPath string) ([]StreamInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	probeCmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		videoPath,
	)
	var out bytes.Buffer
	probeCmd.Stdout = &out
	if err := probeCmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var streams []StreamInfo
	ordinal := 0
	gjson.GetBytes(out.Bytes(), "streams").ForEach(func(_, stream gjson.Result) bool {
		if stream.Get("codec_type").String() != "subtitle" {
			return true
		}
		streams = append(streams, StreamInfo{
			Index:    ordinal,
			Codec:    stream.Get("codec_name").String(),
			Language: stream.Get("tags.language").String(),
			Title:    stream.Get("tags.title").String(),
		})
		ordinal++
		return true
	})
	return streams, nil
}

// ExtractSubtitles demuxes one subtitle stream into a caption file at
// outputPath, transcoded to the requested format.
func ExtractSubtitles(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractOptions,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	codec, err := subtitleCodec(opts.Format)
	if err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"map":      fmt.Sprintf("0:s:%d", opts.StreamIndex),
		"c:s":      codec,
		"vn":       "", // no video
		"an":       "", // no audio
		"y":        "",
		"f":        containerFormat(opts.Format),
		"loglevel": "error",
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg subtitle extraction failed: %w", err)
	}
	return nil
}

// EmbedOptions controls soft-subtitle muxing.
type EmbedOptions struct {
	Language string // ISO 639-2 tag stamped on the new track
	Title    string
}

// EmbedSubtitles muxes a caption file into the video as an additional
// soft subtitle track. Video and audio streams are copied, not
// re-encoded.
func EmbedSubtitles(
	ctx context.Context,
	videoPath, subtitlePath, outputPath string,
	opts EmbedOptions,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, path := range []string{videoPath, subtitlePath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"c:v": "copy",
		"c:a": "copy",
		"c:s": embeddedCodec(outputPath),
		"y":   "",
	}
	var tags []string
	if opts.Language != "" {
		tags = append(tags, "language="+opts.Language)
	}
	if opts.Title != "" {
		tags = append(tags, "title="+opts.Title)
	}
	if len(tags) > 0 {
		kwargs["metadata:s:s:0"] = tags
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	video := ffmpeg.Input(videoPath)
	subs := ffmpeg.Input(subtitlePath)
	err = ffmpeg.Output(
		[]*ffmpeg.Stream{video, subs},
		outputPath,
		kwargs,
	).OverWriteOutput().SetFfmpegPath(ffmpegPath).Run()
	if err != nil {
		return fmt.Errorf("ffmpeg subtitle muxing failed: %w", err)
	}
	return nil
}

// subtitleCodec maps a caption format to the ffmpeg encoder name.
func subtitleCodec(f document.Format) (string, error) {
	switch f {
	case document.FormatSRT, "":
		return "srt", nil
	case document.FormatVTT:
		return "webvtt", nil
	case document.FormatASS:
		return "ass", nil
	default:
		return "", fmt.Errorf(
			"format %s cannot be demuxed from a container: %w",
			f,
			document.ErrInvalidFormat,
		)
	}
}

func containerFormat(f document.Format) string {
	switch f {
	case document.FormatVTT:
		return "webvtt"
	case document.FormatASS:
		return "ass"
	default:
		return "srt"
	}
}

// mp4 containers only carry mov_text; everything else takes the
// source codec as-is.
func embeddedCodec(outputPath string) string {
	if filepath.Ext(outputPath) == ".mp4" {
		return "mov_text"
	}
	return "copy"
}
