package detect

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/subweave/subweave/internal/document"
)

// confidence at which the battery stops early
const earlyReturnThreshold = 0.8

// Result is one detection outcome. Format is empty when nothing
// matched at all.
type Result struct {
	Format     document.Format `json:"format,omitempty"`
	Confidence float64         `json:"confidence"`
	Reasons    []string        `json:"reasons"`
}

// Scorer grades raw text against one format. A scorer must return 0
// when its required first-order signal is absent, regardless of any
// secondary signals.
type Scorer struct {
	Format document.Format
	Score  func(text string) (float64, []string)
}

// Detector runs an ordered battery of scorers, most specific first.
type Detector struct {
	scorers []Scorer
}

// New builds a detector from an explicit scorer battery. With no
// arguments the default battery (JSON, VTT, ASS, SRT) is used.
func New(scorers ...Scorer) *Detector {
	if len(scorers) == 0 {
		scorers = DefaultScorers()
	}
	return &Detector{scorers: scorers}
}

func DefaultScorers() []Scorer {
	return []Scorer{
		{Format: document.FormatJSON, Score: scoreJSON},
		{Format: document.FormatVTT, Score: scoreVTT},
		{Format: document.FormatASS, Score: scoreASS},
		{Format: document.FormatSRT, Score: scoreSRT},
	}
}

// Detect returns the first scorer reaching the early-return threshold,
// otherwise the single best result across the battery. Ties favor
// battery order.
func (d *Detector) Detect(text string) Result {
	best := Result{Reasons: []string{}}

	for _, s := range d.scorers {
		confidence, reasons := s.Score(text)
		if confidence >= earlyReturnThreshold {
			return Result{
				Format:     s.Format,
				Confidence: confidence,
				Reasons:    reasons,
			}
		}
		if confidence > best.Confidence {
			best = Result{
				Format:     s.Format,
				Confidence: confidence,
				Reasons:    reasons,
			}
		}
	}

	if best.Confidence == 0 {
		best.Format = ""
		best.Reasons = []string{"no format signals matched"}
	}
	return best
}

// DetectSimple returns only the winning format, or empty.
func (d *Detector) DetectSimple(text string) document.Format {
	return d.Detect(text).Format
}

// DetectWithThreshold applies the caller's own acceptance bar; below
// it no format is reported.
func (d *Detector) DetectWithThreshold(
	text string,
	minConfidence float64,
) (document.Format, bool) {
	result := d.Detect(text)
	if result.Format == "" || result.Confidence < minConfidence {
		return "", false
	}
	return result.Format, true
}

// Detect runs the default battery.
func Detect(text string) Result {
	return New().Detect(text)
}

var (
	srtArrowPattern = regexp.MustCompile(
		`(?m)^\s*\d{2}:\d{2}:\d{2},\d{3}\s*-->\s*\d{2}:\d{2}:\d{2},\d{3}`,
	)
	vttArrowPattern = regexp.MustCompile(
		`(?m)\d{2}:\d{2}[.,]\d{3}\s*-->\s*`,
	)
	numericLinePattern = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	dialoguePattern    = regexp.MustCompile(`(?m)^Dialogue:`)
)

func scoreJSON(text string) (float64, []string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return 0, nil
	}

	root := gjson.Parse(trimmed)
	reasons := []string{"parseable JSON"}

	if root.IsObject() {
		if root.Get("cues").IsArray() {
			reasons = append(reasons, "canonical schema with cues array")
			return 0.95, reasons
		}
		return 0.3, reasons
	}

	if root.IsArray() {
		items := root.Array()
		if len(items) > 0 && cueShaped(items[0]) {
			reasons = append(reasons, "array of cue-shaped objects")
			return 0.9, reasons
		}
		reasons = append(reasons, "JSON array without cue shape")
		return 0.4, reasons
	}

	return 0.2, reasons
}

func cueShaped(item gjson.Result) bool {
	if !item.IsObject() {
		return false
	}
	hasStart := item.Get("start").Exists() || item.Get("startTime").Exists()
	hasEnd := item.Get("end").Exists() || item.Get("endTime").Exists()
	hasText := item.Get("text").Exists() || item.Get("content").Exists()
	return hasStart && hasEnd && hasText
}

func scoreVTT(text string) (float64, []string) {
	body := strings.TrimPrefix(text, "\ufeff")
	firstLine := body
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		firstLine = body[:idx]
	}
	if !strings.HasPrefix(strings.TrimSpace(firstLine), "WEBVTT") {
		return 0, nil
	}

	reasons := []string{"WEBVTT header"}
	confidence := 0.8

	if vttArrowPattern.MatchString(body) {
		confidence = 0.95
		reasons = append(reasons, "timestamp arrow lines")
	}
	return confidence, reasons
}

func scoreASS(text string) (float64, []string) {
	lower := strings.ToLower(text)
	hasScriptInfo := strings.Contains(lower, "[script info]")
	hasEvents := strings.Contains(lower, "[events]")
	if !hasScriptInfo && !hasEvents {
		return 0, nil
	}

	var reasons []string
	signals := 0
	if hasScriptInfo {
		signals++
		reasons = append(reasons, "[Script Info] section")
	}
	if strings.Contains(lower, "[v4+ styles]") ||
		strings.Contains(lower, "[v4 styles]") {
		signals++
		reasons = append(reasons, "styles section")
	}
	if hasEvents {
		signals++
		reasons = append(reasons, "[Events] section")
	}
	if dialoguePattern.MatchString(text) {
		signals++
		reasons = append(reasons, "Dialogue lines")
	}

	confidence := 0.35 + 0.15*float64(signals)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence, reasons
}

func scoreSRT(text string) (float64, []string) {
	if !srtArrowPattern.MatchString(text) {
		return 0, nil
	}

	reasons := []string{"comma-millisecond timestamp arrows"}
	confidence := 0.7

	if numericLinePattern.MatchString(text) {
		confidence = 0.9
		reasons = append(reasons, "numeric sequence lines")
	}
	return confidence, reasons
}
