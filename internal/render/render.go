// Package render projects canonical documents into one-way
// presentation outputs: HTML overlay fragments and compact/verbose
// JSON views. Nothing here round-trips back into the pipeline.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/format"
)

// HTML renders each cue as an overlay fragment. Positioning and color
// overrides buried in ASS content are inverted into data attributes so
// a canvas/browser consumer never has to understand override tags.
func HTML(doc *document.Document) string {
	var sb strings.Builder

	sb.WriteString(`<div class="subtitle-overlay">` + "\n")
	for _, cue := range doc.Cues {
		sb.WriteString(renderCue(doc, cue))
		sb.WriteString("\n")
	}
	sb.WriteString("</div>\n")

	return sb.String()
}

func renderCue(doc *document.Document, cue document.Cue) string {
	var attrs strings.Builder

	fmt.Fprintf(&attrs, ` data-index="%d"`, cue.Index)
	fmt.Fprintf(&attrs, ` data-start="%d"`, cue.StartTime)
	fmt.Fprintf(&attrs, ` data-end="%d"`, cue.EndTime)
	if cue.Style != "" {
		fmt.Fprintf(&attrs, ` data-style="%s"`, html.EscapeString(cue.Style))
	}

	layout := cue.Layout
	if layout == nil {
		layout = format.ExtractPosition(cue.Content)
	}
	if layout != nil {
		fmt.Fprintf(&attrs, ` data-pos-x="%g"`, layout.X)
		fmt.Fprintf(&attrs, ` data-pos-y="%g"`, layout.Y)
	}

	if override := format.ExtractColor(cue.Content); override != "" {
		fmt.Fprintf(
			&attrs,
			` data-override-color="%s"`,
			format.ColorToCSS(override),
		)
	}

	css := styleCSS(doc.StyleByName(cue.Style))

	body := html.EscapeString(cue.Text)
	body = strings.ReplaceAll(body, "\n", "<br>")

	if css != "" {
		return fmt.Sprintf(`<div class="cue"%s style="%s">%s</div>`,
			attrs.String(), css, body)
	}
	return fmt.Sprintf(`<div class="cue"%s>%s</div>`, attrs.String(), body)
}

func styleCSS(style *document.Style) string {
	if style == nil {
		return ""
	}

	var parts []string
	if style.FontName != "" {
		parts = append(parts, "font-family:"+style.FontName)
	}
	if style.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("font-size:%gpx", style.FontSize))
	}
	if style.PrimaryColor != "" {
		parts = append(parts, "color:"+format.ColorToCSS(style.PrimaryColor))
	}
	if style.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if style.Italic {
		parts = append(parts, "font-style:italic")
	}
	if style.Underline {
		parts = append(parts, "text-decoration:underline")
	}
	return strings.Join(parts, ";")
}
