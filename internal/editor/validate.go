package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/subweave/subweave/internal/document"
)

// Issue codes. Errors describe states a downstream serializer or
// player would choke on; warnings describe states a human reviewer
// should look at.
const (
	CodeInvalidTimecode  = "InvalidTimecode"
	CodeEmptyCue         = "EmptyCue"
	CodeOverlappingCues  = "OverlappingCues"
	CodeMissingCueNumber = "MissingCueNumber"

	CodeShortDuration  = "ShortDuration"
	CodeLongDuration   = "LongDuration"
	CodeGapBetweenCues = "GapBetweenCues"
	CodeExcessiveLines = "ExcessiveLines"
	CodeLongLine       = "LongLine"
)

// Config toggles the individual checks. Zero-valued thresholds disable
// the corresponding check.
type Config struct {
	CheckOrdering  bool
	CheckEmpty     bool
	CheckOverlap   bool
	CheckNumbering bool

	MinDurationMs int64
	MaxDurationMs int64
	MaxGapMs      int64
	MaxLines      int
	MaxLineLength int // visible characters per line
}

// DefaultConfig mirrors common broadcast subtitle guidance: cues
// readable for at least half a second, no cue held past seven seconds,
// at most two lines.
func DefaultConfig() Config {
	return Config{
		CheckOrdering:  true,
		CheckEmpty:     true,
		CheckOverlap:   true,
		CheckNumbering: true,
		MinDurationMs:  500,
		MaxDurationMs:  7000,
		MaxLines:       2,
		MaxLineLength:  42,
	}
}

type Issue struct {
	Code     string `json:"code"`
	CueIndex int    `json:"cueIndex"` // 0-based position in document order
	Message  string `json:"message"`
}

type Result struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Validate runs the configured checks over the live document.
func (e *Editor) Validate() Result {
	return ValidateDocument(e.doc, e.options.Validation)
}

func ValidateDocument(doc *document.Document, cfg Config) Result {
	result := Result{
		Errors:   []Issue{},
		Warnings: []Issue{},
	}

	for i := range doc.Cues {
		errs, warns := cueIssues(doc.Cues[i], i, cfg)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}

	// pairwise checks between adjacent cues in document order
	for i := 0; i+1 < len(doc.Cues); i++ {
		current, next := doc.Cues[i], doc.Cues[i+1]

		if cfg.CheckOverlap && current.EndTime > next.StartTime {
			result.Errors = append(result.Errors, Issue{
				Code:     CodeOverlappingCues,
				CueIndex: i,
				Message: fmt.Sprintf(
					"cue ending at %dms overlaps next cue starting at %dms",
					current.EndTime,
					next.StartTime,
				),
			})
		}

		if cfg.MaxGapMs > 0 {
			gap := next.StartTime - current.EndTime
			if gap > cfg.MaxGapMs {
				result.Warnings = append(result.Warnings, Issue{
					Code:     CodeGapBetweenCues,
					CueIndex: i,
					Message: fmt.Sprintf(
						"%dms of silence before next cue", gap,
					),
				})
			}
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func cueIssues(cue document.Cue, position int, cfg Config) (errs, warns []Issue) {
	if cfg.CheckOrdering {
		switch {
		case cue.StartTime < 0 || cue.EndTime < 0:
			errs = append(errs, Issue{
				Code:     CodeInvalidTimecode,
				CueIndex: position,
				Message:  "cue has a negative timestamp",
			})
		case cue.EndTime < cue.StartTime:
			errs = append(errs, Issue{
				Code:     CodeInvalidTimecode,
				CueIndex: position,
				Message: fmt.Sprintf(
					"cue ends at %dms before it starts at %dms",
					cue.EndTime,
					cue.StartTime,
				),
			})
		}
	}

	if cfg.CheckEmpty && strings.TrimSpace(cue.Text) == "" {
		errs = append(errs, Issue{
			Code:     CodeEmptyCue,
			CueIndex: position,
			Message:  "cue has no visible text",
		})
	}

	// adapters always renumber, so this fires only on hand-built cues
	if cfg.CheckNumbering && cue.Index <= 0 {
		errs = append(errs, Issue{
			Code:     CodeMissingCueNumber,
			CueIndex: position,
			Message:  "cue has no sequence number",
		})
	}

	duration := cue.EndTime - cue.StartTime
	if cfg.MinDurationMs > 0 && duration >= 0 && duration < cfg.MinDurationMs {
		warns = append(warns, Issue{
			Code:     CodeShortDuration,
			CueIndex: position,
			Message: fmt.Sprintf(
				"cue lasts %dms, under the %dms floor",
				duration,
				cfg.MinDurationMs,
			),
		})
	}
	if cfg.MaxDurationMs > 0 && duration > cfg.MaxDurationMs {
		warns = append(warns, Issue{
			Code:     CodeLongDuration,
			CueIndex: position,
			Message: fmt.Sprintf(
				"cue lasts %dms, over the %dms ceiling",
				duration,
				cfg.MaxDurationMs,
			),
		})
	}

	if cfg.MaxLineLength > 0 {
		for _, line := range strings.Split(cue.Text, "\n") {
			if utf8.RuneCountInString(line) > cfg.MaxLineLength {
				warns = append(warns, Issue{
					Code:     CodeLongLine,
					CueIndex: position,
					Message: fmt.Sprintf(
						"line of %d characters exceeds the %d character limit",
						utf8.RuneCountInString(line),
						cfg.MaxLineLength,
					),
				})
				break
			}
		}
	}

	if cfg.MaxLines > 0 {
		if lines := strings.Count(cue.Text, "\n") + 1; lines > cfg.MaxLines {
			warns = append(warns, Issue{
				Code:     CodeExcessiveLines,
				CueIndex: position,
				Message: fmt.Sprintf(
					"cue spans %d lines, over the %d line limit",
					lines,
					cfg.MaxLines,
				),
			})
		}
	}

	return errs, warns
}
