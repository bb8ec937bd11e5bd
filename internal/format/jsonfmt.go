package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/subweave/subweave/internal/document"
)

// JSONAdapter handles two dialects: the canonical document schema and
// a flat legacy array of caption/meta records. Canonical validation is
// attempted first; the legacy fallback only runs when the input is not
// canonical-shaped, so a malformed canonical document surfaces its
// structural error instead of silently degrading.
type JSONAdapter struct{}

type legacyRecord struct {
	Type     string `json:"type"`
	Index    int    `json:"index,omitempty"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Duration int64  `json:"duration"`
	Content  string `json:"content,omitempty"`
	Text     string `json:"text"`

	Title    string `json:"title,omitempty"`
	Language string `json:"language,omitempty"`
	Author   string `json:"author,omitempty"`
}

func (a *JSONAdapter) Format() document.Format {
	return document.FormatJSON
}

func (a *JSONAdapter) Parse(text string) (*document.Document, error) {
	raw := strings.TrimSpace(stripBOM(text))
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf(
			"not parseable JSON: %w",
			document.ErrInvalidFormat,
		)
	}

	root := gjson.Parse(raw)

	switch {
	case root.IsObject() && root.Get("cues").Exists():
		return parseCanonical(raw)
	case root.IsArray():
		return parseLegacyArray(root)
	default:
		return nil, fmt.Errorf(
			"JSON matches neither the canonical schema nor the legacy "+
				"array dialect: %w",
			document.ErrInvalidFormat,
		)
	}
}

func parseCanonical(raw string) (*document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf(
			"canonical schema violation: %v: %w",
			err,
			document.ErrInvalidFormat,
		)
	}
	if doc.SourceFormat == "" {
		doc.SourceFormat = document.FormatJSON
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

func parseLegacyArray(root gjson.Result) (*document.Document, error) {
	doc := document.New(document.FormatJSON)
	sawCaption := false

	for _, item := range root.Array() {
		if !item.IsObject() {
			return nil, fmt.Errorf(
				"legacy array contains a non-object element: %w",
				document.ErrInvalidFormat,
			)
		}

		recordType := item.Get("type").String()
		if recordType == "meta" {
			doc.Metadata = document.MergeMetadata(doc.Metadata, document.Metadata{
				Title:       item.Get("title").String(),
				Language:    item.Get("language").String(),
				Author:      item.Get("author").String(),
				Description: item.Get("description").String(),
			})
			continue
		}
		if recordType != "" && recordType != "caption" {
			continue
		}

		start := item.Get("start")
		end := item.Get("end")
		text := item.Get("text")
		content := item.Get("content")
		if !start.Exists() || !end.Exists() ||
			(!text.Exists() && !content.Exists()) {
			continue
		}

		cue := document.Cue{
			StartTime: start.Int(),
			EndTime:   end.Int(),
			Text:      text.String(),
			Content:   content.String(),
		}
		if cue.Content == "" {
			cue.Content = cue.Text
		}
		if cue.Text == "" {
			cue.Text = document.StripMarkup(cue.Content)
		}
		cue.SyncDuration()
		doc.Cues = append(doc.Cues, cue)
		sawCaption = true
	}

	if !sawCaption {
		return nil, fmt.Errorf(
			"legacy array holds no caption records: %w",
			document.ErrInvalidFormat,
		)
	}

	doc.Reindex()
	return doc, nil
}

func (a *JSONAdapter) Serialize(doc *document.Document) (string, error) {
	clone := doc.Clone()
	clone.Normalize()

	out, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return string(out), nil
}

// SerializeLegacy emits the flat back-compat dialect. Export-only:
// consumers still parsing the old shape get it, nothing writes it back
// into the pipeline.
func (a *JSONAdapter) SerializeLegacy(doc *document.Document) (string, error) {
	records := make([]legacyRecord, 0, len(doc.Cues)+1)

	if doc.Metadata.Title != "" || doc.Metadata.Language != "" ||
		doc.Metadata.Author != "" {
		records = append(records, legacyRecord{
			Type:     "meta",
			Title:    doc.Metadata.Title,
			Language: doc.Metadata.Language,
			Author:   doc.Metadata.Author,
		})
	}

	for i, cue := range doc.Cues {
		records = append(records, legacyRecord{
			Type:     "caption",
			Index:    i + 1,
			Start:    cue.StartTime,
			End:      cue.EndTime,
			Duration: cue.EndTime - cue.StartTime,
			Content:  cueBody(cue),
			Text:     cue.Text,
		})
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize legacy records: %w", err)
	}
	return string(out), nil
}
