package format

import (
	"fmt"
	"strings"

	"github.com/subweave/subweave/internal/document"
)

// Adapter maps between format-native text and the canonical document.
type Adapter interface {
	Format() document.Format
	Parse(text string) (*document.Document, error)
	Serialize(doc *document.Document) (string, error)
}

// ForFormat returns the adapter owning the given format.
func ForFormat(f document.Format) (Adapter, error) {
	switch f {
	case document.FormatSRT:
		return &SRTAdapter{}, nil
	case document.FormatVTT:
		return &VTTAdapter{}, nil
	case document.FormatASS:
		return &ASSAdapter{}, nil
	case document.FormatJSON:
		return &JSONAdapter{}, nil
	case document.FormatCSV:
		return &CSVAdapter{}, nil
	default:
		return nil, fmt.Errorf(
			"no adapter for format %q: %w",
			f,
			document.ErrInvalidFormat,
		)
	}
}

// FromExtension maps a file extension (with or without dot) to a
// format, or empty when unrecognized.
func FromExtension(ext string) document.Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "srt":
		return document.FormatSRT
	case "vtt":
		return document.FormatVTT
	case "ass", "ssa":
		return document.FormatASS
	case "json":
		return document.FormatJSON
	case "csv":
		return document.FormatCSV
	default:
		return ""
	}
}

// Extension returns the conventional file extension for a format.
func Extension(f document.Format) string {
	switch f {
	case document.FormatVTT:
		return ".vtt"
	case document.FormatASS:
		return ".ass"
	case document.FormatJSON:
		return ".json"
	case document.FormatCSV:
		return ".csv"
	default:
		return ".srt"
	}
}

func stripBOM(text string) string {
	return strings.TrimPrefix(text, "\ufeff")
}
