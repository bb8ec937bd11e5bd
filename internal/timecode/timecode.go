package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// textual timecode grammar
type Format string

const (
	FormatSRT Format = "srt" // HH:MM:SS,mmm
	FormatVTT Format = "vtt" // HH:MM:SS.mmm
	FormatASS Format = "ass" // H:MM:SS.cc
)

var ErrInvalidTimecode = errors.New("invalid timecode")

var (
	srtPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)
	vttPattern = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})\.(\d{3})$`)
	assPattern = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{2})$`)
)

// ToMs converts a timecode string to canonical milliseconds. The string
// must match the format's grammar exactly.
func ToMs(text string, format Format) (int64, error) {
	var pattern *regexp.Regexp
	fracScale := int64(1)

	switch format {
	case FormatSRT:
		pattern = srtPattern
	case FormatVTT:
		pattern = vttPattern
	case FormatASS:
		pattern = assPattern
		fracScale = 10 // centiseconds
	default:
		return 0, fmt.Errorf(
			"unsupported timecode format %q: %w",
			format,
			ErrInvalidTimecode,
		)
	}

	matches := pattern.FindStringSubmatch(text)
	if matches == nil {
		return 0, fmt.Errorf(
			"%q does not match %s grammar: %w",
			text,
			format,
			ErrInvalidTimecode,
		)
	}

	hours, _ := strconv.ParseInt(matches[1], 10, 64)
	minutes, _ := strconv.ParseInt(matches[2], 10, 64)
	seconds, _ := strconv.ParseInt(matches[3], 10, 64)
	frac, _ := strconv.ParseInt(matches[4], 10, 64)

	return (hours*3600+minutes*60+seconds)*1000 + frac*fracScale, nil
}

// FromMs formats canonical milliseconds as a timecode string. ASS
// centiseconds truncate rather than round so repeated conversions
// never drift forward. Negative values clamp to zero.
func FromMs(ms int64, format Format) string {
	if ms < 0 {
		ms = 0
	}

	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000

	switch format {
	case FormatSRT:
		return fmt.Sprintf(
			"%02d:%02d:%02d,%03d",
			hours, minutes, seconds, ms%1000,
		)
	case FormatVTT:
		return fmt.Sprintf(
			"%02d:%02d:%02d.%03d",
			hours, minutes, seconds, ms%1000,
		)
	case FormatASS:
		return fmt.Sprintf(
			"%d:%02d:%02d.%02d",
			hours, minutes, seconds, (ms%1000)/10,
		)
	}

	return ""
}
