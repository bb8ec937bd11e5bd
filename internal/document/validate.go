package document

import (
	"fmt"
)

// Validate structurally checks a document before it is trusted by any
// downstream adapter. Time ordering is deliberately not checked here:
// that is a validation-surface concern the editor owns, and transiently
// inverted times must survive a structural check mid-edit.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("nil document: %w", ErrInvalidFormat)
	}
	if d.Version == "" {
		return fmt.Errorf("missing schema version: %w", ErrInvalidFormat)
	}
	if !KnownFormat(d.SourceFormat) {
		return fmt.Errorf(
			"unknown source format %q: %w",
			d.SourceFormat,
			ErrInvalidFormat,
		)
	}
	if d.Cues == nil {
		return fmt.Errorf("missing cues array: %w", ErrInvalidFormat)
	}
	for i, c := range d.Cues {
		if c.StartTime < 0 || c.EndTime < 0 {
			return fmt.Errorf(
				"cue %d has negative time: %w",
				i,
				ErrInvalidFormat,
			)
		}
	}
	for _, s := range d.Styles {
		if s.Name == "" {
			return fmt.Errorf("style with empty name: %w", ErrInvalidFormat)
		}
	}
	return nil
}
