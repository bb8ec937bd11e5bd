package document

import (
	"errors"
)

// subtitle format handled by the conversion pipeline
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"

	// FormatAuto asks the converter to run detection first.
	FormatAuto Format = "auto"
)

// schema version written into serialized documents
const Version = "1.0"

var ErrInvalidFormat = errors.New("invalid format")

// KnownFormat reports whether f names a concrete adapter format.
func KnownFormat(f Format) bool {
	switch f {
	case FormatSRT, FormatVTT, FormatASS, FormatJSON, FormatCSV:
		return true
	}
	return false
}

// Document is the canonical intermediate representation every adapter
// parses into and serializes out of. Cues are insertion-ordered; Index
// is a derived 1-based field recomputed on structural mutation.
type Document struct {
	Version      string   `json:"version"`
	SourceFormat Format   `json:"sourceFormat"`
	Metadata     Metadata `json:"metadata"`
	Styles       []Style  `json:"styles"`
	Cues         []Cue    `json:"cues"`
}

// free-form per-document fields plus a passthrough bag for anything
// the canonical schema does not model
type Metadata struct {
	Title          string                    `json:"title,omitempty"`
	Language       string                    `json:"language,omitempty"`
	Author         string                    `json:"author,omitempty"`
	Description    string                    `json:"description,omitempty"`
	FormatSpecific map[string]map[string]any `json:"formatSpecific,omitempty"`
}

// named presentation profile referenced by Cue.Style
type Style struct {
	Name           string         `json:"name"`
	FontName       string         `json:"fontName,omitempty"`
	FontSize       float64        `json:"fontSize,omitempty"`
	PrimaryColor   string         `json:"primaryColor,omitempty"`
	SecondaryColor string         `json:"secondaryColor,omitempty"`
	OutlineColor   string         `json:"outlineColor,omitempty"`
	BackColor      string         `json:"backColor,omitempty"`
	Bold           bool           `json:"bold,omitempty"`
	Italic         bool           `json:"italic,omitempty"`
	Underline      bool           `json:"underline,omitempty"`
	StrikeOut      bool           `json:"strikeOut,omitempty"`
	ScaleX         float64        `json:"scaleX,omitempty"`
	ScaleY         float64        `json:"scaleY,omitempty"`
	Spacing        float64        `json:"spacing,omitempty"`
	Angle          float64        `json:"angle,omitempty"`
	BorderStyle    int            `json:"borderStyle,omitempty"`
	Outline        float64        `json:"outline,omitempty"`
	Shadow         float64        `json:"shadow,omitempty"`
	Alignment      int            `json:"alignment,omitempty"` // numpad 1-9
	MarginL        int            `json:"marginL,omitempty"`
	MarginR        int            `json:"marginR,omitempty"`
	MarginV        int            `json:"marginV,omitempty"`
	Encoding       int            `json:"encoding,omitempty"`
	FormatSpecific map[string]any `json:"formatSpecific,omitempty"`
}

// screen placement carried by positioned cues
type Layout struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Alignment int     `json:"alignment,omitempty"`
}

// Span marks a run of plain-text characters carrying inline formatting.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"` // bold, italic, underline
}

// Cue is one timed caption unit. Text is Content with all format
// override syntax stripped; the two must stay in sync on any edit.
// Duration always derives from EndTime - StartTime.
type Cue struct {
	Index          int            `json:"index"`
	StartTime      int64          `json:"startTime"`
	EndTime        int64          `json:"endTime"`
	Duration       int64          `json:"duration"`
	Text           string         `json:"text"`
	Content        string         `json:"content"`
	Style          string         `json:"style,omitempty"`
	Identifier     string         `json:"identifier,omitempty"`
	Layout         *Layout        `json:"layout,omitempty"`
	Formatting     []Span         `json:"formatting,omitempty"`
	FormatSpecific *CueExtensions `json:"formatSpecific,omitempty"`
}

// New returns an empty document for the given source format.
func New(source Format) *Document {
	return &Document{
		Version:      Version,
		SourceFormat: source,
		Styles:       []Style{},
		Cues:         []Cue{},
	}
}

// SyncDuration recomputes the derived duration field.
func (c *Cue) SyncDuration() {
	c.Duration = c.EndTime - c.StartTime
}

// Reindex rewrites cue indices as a contiguous 1-based sequence in
// insertion order.
func (d *Document) Reindex() {
	for i := range d.Cues {
		d.Cues[i].Index = i + 1
	}
}

// StyleByName looks a style up by its name, or nil.
func (d *Document) StyleByName(name string) *Style {
	for i := range d.Styles {
		if d.Styles[i].Name == name {
			return &d.Styles[i]
		}
	}
	return nil
}

// UpsertStyle replaces the style with the same name or appends.
func (d *Document) UpsertStyle(s Style) {
	for i := range d.Styles {
		if d.Styles[i].Name == s.Name {
			d.Styles[i] = s
			return
		}
	}
	d.Styles = append(d.Styles, s)
}

// Normalize restores schema invariants an adapter may have left
// unsatisfied: non-nil slices, schema version, contiguous indices,
// derived durations, and plain/rich text sync.
func (d *Document) Normalize() {
	if d.Version == "" {
		d.Version = Version
	}
	if d.Styles == nil {
		d.Styles = []Style{}
	}
	if d.Cues == nil {
		d.Cues = []Cue{}
	}
	for i := range d.Cues {
		c := &d.Cues[i]
		if c.Content == "" && c.Text != "" {
			c.Content = c.Text
		}
		if c.Text == "" && c.Content != "" {
			c.Text = StripMarkup(c.Content)
		}
		c.SyncDuration()
	}
	d.Reindex()
}
