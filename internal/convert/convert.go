// Package convert drives format -> canonical -> format conversion.
// Every conversion funnels the parsed document through a JSON
// serialize/reparse step, so the target adapter always receives a
// document satisfying the full schema invariants no matter which
// adapter produced it.
package convert

import (
	"fmt"

	"github.com/subweave/subweave/internal/detect"
	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/format"
)

// Parse turns format-native text into a canonical document. With
// FormatAuto the detector picks the source format first.
func Parse(text string, from document.Format) (*document.Document, error) {
	if from == document.FormatAuto || from == "" {
		result := detect.Detect(text)
		if result.Format == "" {
			return nil, fmt.Errorf(
				"unable to detect source format: %w",
				document.ErrInvalidFormat,
			)
		}
		from = result.Format
	}

	adapter, err := format.ForFormat(from)
	if err != nil {
		return nil, err
	}

	doc, err := adapter.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s input: %w", from, err)
	}
	return doc, nil
}

// Serialize renders a canonical document as format-native text.
func Serialize(doc *document.Document, to document.Format) (string, error) {
	adapter, err := format.ForFormat(to)
	if err != nil {
		return "", err
	}

	out, err := adapter.Serialize(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize to %s: %w", to, err)
	}
	return out, nil
}

// Normalize routes a document through the canonical JSON adapter and
// back. Optional fields an entry adapter left unset (durations,
// indices, plain/rich text sync, empty slices) come back satisfied.
func Normalize(doc *document.Document) (*document.Document, error) {
	jsonAdapter := &format.JSONAdapter{}

	raw, err := jsonAdapter.Serialize(doc)
	if err != nil {
		return nil, err
	}
	normalized, err := jsonAdapter.Parse(raw)
	if err != nil {
		return nil, err
	}

	// the round trip is shape normalization, not a format change
	normalized.SourceFormat = doc.SourceFormat
	return normalized, nil
}

// Convert is the whole pipeline: detect (if asked), parse, normalize,
// serialize.
func Convert(text string, from, to document.Format) (string, error) {
	doc, err := Parse(text, from)
	if err != nil {
		return "", err
	}

	normalized, err := Normalize(doc)
	if err != nil {
		return "", err
	}

	return Serialize(normalized, to)
}
