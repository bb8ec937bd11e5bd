package render

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/format"
)

// CompactJSON emits the {v,f,s,c} projection for embedded-UI
// consumers: short keys, positional cue tuples, nothing derivable.
func CompactJSON(doc *document.Document) (string, error) {
	out := "{}"
	var err error

	if out, err = sjson.Set(out, "v", doc.Version); err != nil {
		return "", fmt.Errorf("failed to build compact JSON: %w", err)
	}
	if out, err = sjson.Set(out, "f", string(doc.SourceFormat)); err != nil {
		return "", fmt.Errorf("failed to build compact JSON: %w", err)
	}

	styles := make([]any, 0, len(doc.Styles))
	for _, style := range doc.Styles {
		styles = append(styles, []any{
			style.Name,
			style.FontName,
			style.FontSize,
			format.ColorToCSS(style.PrimaryColor),
		})
	}
	if out, err = sjson.Set(out, "s", styles); err != nil {
		return "", fmt.Errorf("failed to build compact JSON: %w", err)
	}

	cues := make([]any, 0, len(doc.Cues))
	for _, cue := range doc.Cues {
		cues = append(cues, []any{
			cue.Index,
			cue.StartTime,
			cue.EndTime,
			cue.Text,
			cue.Style,
		})
	}
	if out, err = sjson.Set(out, "c", cues); err != nil {
		return "", fmt.Errorf("failed to build compact JSON: %w", err)
	}

	return out, nil
}

// verbose projection shapes
type verboseCue struct {
	Index     int              `json:"index"`
	StartTime int64            `json:"startTime"`
	EndTime   int64            `json:"endTime"`
	Duration  int64            `json:"duration"`
	Text      string           `json:"text"`
	Content   string           `json:"content"`
	Style     *verboseStyle    `json:"style,omitempty"`
	Layout    *document.Layout `json:"layout,omitempty"`
	Spans     []document.Span  `json:"formatting,omitempty"`
}

type verboseStyle struct {
	Name     string  `json:"name"`
	FontName string  `json:"fontName,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"` // CSS form
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
}

// VerboseJSON inlines each cue's resolved style so consumers need no
// separate style-table lookup.
func VerboseJSON(doc *document.Document) (string, error) {
	cues := make([]verboseCue, 0, len(doc.Cues))

	for _, cue := range doc.Cues {
		v := verboseCue{
			Index:     cue.Index,
			StartTime: cue.StartTime,
			EndTime:   cue.EndTime,
			Duration:  cue.EndTime - cue.StartTime,
			Text:      cue.Text,
			Content:   cue.Content,
			Layout:    cue.Layout,
			Spans:     cue.Formatting,
		}
		if style := doc.StyleByName(cue.Style); style != nil {
			v.Style = &verboseStyle{
				Name:     style.Name,
				FontName: style.FontName,
				FontSize: style.FontSize,
				Color:    format.ColorToCSS(style.PrimaryColor),
				Bold:     style.Bold,
				Italic:   style.Italic,
			}
		}
		cues = append(cues, v)
	}

	out, err := json.MarshalIndent(map[string]any{
		"version":      doc.Version,
		"sourceFormat": doc.SourceFormat,
		"cues":         cues,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to build verbose JSON: %w", err)
	}
	return string(out), nil
}
