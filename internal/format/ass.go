package format

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/timecode"
)

// ASS/SSA v4+ adapter. The authoritative source of styles and per-cue
// presentation metadata: style and event column order is read from each
// section's Format: line, never assumed fixed, and only the Text event
// field may contain embedded commas.
type ASSAdapter struct{}

const assStyleFormatLine = "Format: Name, Fontname, Fontsize, PrimaryColour, " +
	"SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, " +
	"StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, " +
	"Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"

const assEventFormatLine = "Format: Layer, Start, End, Style, Name, " +
	"MarginL, MarginR, MarginV, Effect, Text"

func (a *ASSAdapter) Format() document.Format {
	return document.FormatASS
}

func (a *ASSAdapter) Parse(text string) (*document.Document, error) {
	doc := document.New(document.FormatASS)

	scanner := bufio.NewScanner(strings.NewReader(stripBOM(text)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	scriptInfo := map[string]any{}
	var otherEvents []any

	section := ""
	var styleColumns, eventColumns []string
	sawEvents := false

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"),
			)
			if section == "events" {
				sawEvents = true
			}
			continue
		}

		switch section {
		case "script info":
			key, value, found := strings.Cut(trimmed, ":")
			if !found {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if key == "Title" {
				doc.Metadata.Title = value
			} else {
				scriptInfo[key] = value
			}

		case "v4+ styles", "v4 styles":
			if columns, ok := formatColumns(trimmed); ok {
				styleColumns = columns
				continue
			}
			if value, ok := strings.CutPrefix(trimmed, "Style:"); ok {
				if style, ok := parseStyleLine(value, styleColumns); ok {
					doc.Styles = append(doc.Styles, style)
				}
			}

		case "events":
			if columns, ok := formatColumns(trimmed); ok {
				eventColumns = columns
				continue
			}
			if value, ok := strings.CutPrefix(trimmed, "Dialogue:"); ok {
				// a dialogue line failing its field grammar is dropped,
				// never defaulted
				if cue, ok := parseDialogueLine(value, eventColumns); ok {
					doc.Cues = append(doc.Cues, cue)
				}
				continue
			}
			otherEvents = append(otherEvents, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS input: %w", err)
	}

	if !sawEvents {
		return nil, fmt.Errorf(
			"missing [Events] section: %w",
			document.ErrInvalidFormat,
		)
	}

	if len(scriptInfo) > 0 || len(otherEvents) > 0 {
		bag := map[string]any{}
		for k, v := range scriptInfo {
			bag[k] = v
		}
		if len(otherEvents) > 0 {
			bag["otherEvents"] = otherEvents
		}
		doc.Metadata.FormatSpecific = map[string]map[string]any{"ass": bag}
	}

	doc.Reindex()
	return doc, nil
}

// formatColumns parses a section's Format: line into trimmed column
// names.
func formatColumns(line string) ([]string, bool) {
	value, ok := strings.CutPrefix(line, "Format:")
	if !ok {
		return nil, false
	}
	columns := strings.Split(value, ",")
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}
	return columns, true
}

func parseStyleLine(value string, columns []string) (document.Style, bool) {
	var style document.Style
	if len(columns) == 0 {
		return style, false
	}

	fields := strings.SplitN(value, ",", len(columns))
	if len(fields) != len(columns) {
		return style, false
	}

	for i, column := range columns {
		field := strings.TrimSpace(fields[i])
		switch strings.ToLower(column) {
		case "name":
			style.Name = field
		case "fontname":
			style.FontName = field
		case "fontsize":
			style.FontSize, _ = strconv.ParseFloat(field, 64)
		case "primarycolour":
			style.PrimaryColor = field
		case "secondarycolour":
			style.SecondaryColor = field
		case "outlinecolour", "tertiarycolour":
			style.OutlineColor = field
		case "backcolour":
			style.BackColor = field
		case "bold":
			style.Bold = assBool(field)
		case "italic":
			style.Italic = assBool(field)
		case "underline":
			style.Underline = assBool(field)
		case "strikeout":
			style.StrikeOut = assBool(field)
		case "scalex":
			style.ScaleX, _ = strconv.ParseFloat(field, 64)
		case "scaley":
			style.ScaleY, _ = strconv.ParseFloat(field, 64)
		case "spacing":
			style.Spacing, _ = strconv.ParseFloat(field, 64)
		case "angle":
			style.Angle, _ = strconv.ParseFloat(field, 64)
		case "borderstyle":
			style.BorderStyle, _ = strconv.Atoi(field)
		case "outline":
			style.Outline, _ = strconv.ParseFloat(field, 64)
		case "shadow":
			style.Shadow, _ = strconv.ParseFloat(field, 64)
		case "alignment":
			style.Alignment, _ = strconv.Atoi(field)
		case "marginl":
			style.MarginL, _ = strconv.Atoi(field)
		case "marginr":
			style.MarginR, _ = strconv.Atoi(field)
		case "marginv":
			style.MarginV, _ = strconv.Atoi(field)
		case "encoding":
			style.Encoding, _ = strconv.Atoi(field)
		}
	}

	return style, style.Name != ""
}

func parseDialogueLine(value string, columns []string) (document.Cue, bool) {
	var cue document.Cue
	if len(columns) == 0 {
		return cue, false
	}

	fields := splitEventFields(strings.TrimSpace(value), len(columns))
	if len(fields) != len(columns) {
		return cue, false
	}

	ass := &document.ASSCueData{}
	haveStart, haveEnd := false, false

	for i, column := range columns {
		field := fields[i]
		switch strings.ToLower(column) {
		case "layer", "marked":
			ass.Layer, _ = strconv.Atoi(strings.TrimSpace(field))
		case "start":
			ms, err := timecode.ToMs(
				strings.TrimSpace(field),
				timecode.FormatASS,
			)
			if err != nil {
				return cue, false
			}
			cue.StartTime = ms
			haveStart = true
		case "end":
			ms, err := timecode.ToMs(
				strings.TrimSpace(field),
				timecode.FormatASS,
			)
			if err != nil {
				return cue, false
			}
			cue.EndTime = ms
			haveEnd = true
		case "style":
			cue.Style = strings.TrimSpace(field)
		case "name", "actor":
			ass.Actor = strings.TrimSpace(field)
		case "marginl":
			ass.MarginL, _ = strconv.Atoi(strings.TrimSpace(field))
		case "marginr":
			ass.MarginR, _ = strconv.Atoi(strings.TrimSpace(field))
		case "marginv":
			ass.MarginV, _ = strconv.Atoi(strings.TrimSpace(field))
		case "effect":
			ass.Effect = strings.TrimSpace(field)
		case "text":
			cue.Content = field
		}
	}

	if !haveStart || !haveEnd {
		return cue, false
	}

	cue.Text = document.StripMarkup(cue.Content)
	cue.SyncDuration()
	cue.Layout = ExtractPosition(cue.Content)
	if alignment := ExtractAlignment(cue.Content); alignment != 0 {
		if cue.Layout == nil {
			cue.Layout = &document.Layout{}
		}
		cue.Layout.Alignment = alignment
	}
	cue.Formatting = ExtractSpans(cue.Content)
	cue.FormatSpecific = &document.CueExtensions{ASS: ass}

	return cue, true
}

// splitEventFields treats only the first n-1 commas as delimiters;
// everything after belongs to the Text field and may contain commas.
func splitEventFields(value string, n int) []string {
	if n <= 0 {
		return nil
	}
	fields := make([]string, 0, n)
	remaining := value
	for i := 0; i < n-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			fields = append(fields, remaining)
			return fields
		}
		fields = append(fields, remaining[:idx])
		remaining = remaining[idx+1:]
	}
	return append(fields, remaining)
}

func assBool(field string) bool {
	n, _ := strconv.Atoi(field)
	return n != 0
}

func (a *ASSAdapter) Serialize(doc *document.Document) (string, error) {
	var sb strings.Builder

	assBag := doc.Metadata.FormatSpecific["ass"]

	sb.WriteString("[Script Info]\n")
	if doc.Metadata.Title != "" {
		sb.WriteString("Title: " + doc.Metadata.Title + "\n")
	}
	if scriptType, ok := assBag["ScriptType"].(string); ok {
		sb.WriteString("ScriptType: " + scriptType + "\n")
	} else {
		sb.WriteString("ScriptType: v4.00+\n")
	}
	for _, key := range sortedBagKeys(assBag) {
		if key == "ScriptType" || key == "otherEvents" {
			continue
		}
		if value, ok := assBag[key].(string); ok {
			sb.WriteString(key + ": " + value + "\n")
		}
	}
	sb.WriteString("\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString(assStyleFormatLine + "\n")
	styles := doc.Styles
	if len(styles) == 0 {
		styles = []document.Style{defaultASSStyle()}
	}
	for _, style := range styles {
		sb.WriteString(formatStyleLine(style) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("[Events]\n")
	sb.WriteString(assEventFormatLine + "\n")
	for _, cue := range doc.Cues {
		sb.WriteString(formatDialogueLine(cue) + "\n")
	}
	if events, ok := assBag["otherEvents"].([]any); ok {
		for _, event := range events {
			if line, ok := event.(string); ok {
				sb.WriteString(line + "\n")
			}
		}
	}

	return sb.String(), nil
}

func sortedBagKeys(bag map[string]any) []string {
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultASSStyle() document.Style {
	return document.Style{
		Name:           "Default",
		FontName:       "Arial",
		FontSize:       20,
		PrimaryColor:   "&H00FFFFFF",
		SecondaryColor: "&H000000FF",
		OutlineColor:   "&H00000000",
		BackColor:      "&H00000000",
		ScaleX:         100,
		ScaleY:         100,
		BorderStyle:    1,
		Outline:        2,
		Shadow:         2,
		Alignment:      2,
		MarginL:        10,
		MarginR:        10,
		MarginV:        10,
		Encoding:       1,
	}
}

func formatStyleLine(s document.Style) string {
	fields := []string{
		s.Name,
		defaultString(s.FontName, "Arial"),
		formatFloat(defaultFloat(s.FontSize, 20)),
		defaultString(s.PrimaryColor, "&H00FFFFFF"),
		defaultString(s.SecondaryColor, "&H000000FF"),
		defaultString(s.OutlineColor, "&H00000000"),
		defaultString(s.BackColor, "&H00000000"),
		assBoolField(s.Bold),
		assBoolField(s.Italic),
		assBoolField(s.Underline),
		assBoolField(s.StrikeOut),
		formatFloat(defaultFloat(s.ScaleX, 100)),
		formatFloat(defaultFloat(s.ScaleY, 100)),
		formatFloat(s.Spacing),
		formatFloat(s.Angle),
		strconv.Itoa(defaultInt(s.BorderStyle, 1)),
		formatFloat(s.Outline),
		formatFloat(s.Shadow),
		strconv.Itoa(defaultInt(s.Alignment, 2)),
		strconv.Itoa(s.MarginL),
		strconv.Itoa(s.MarginR),
		strconv.Itoa(s.MarginV),
		strconv.Itoa(defaultInt(s.Encoding, 1)),
	}
	return "Style: " + strings.Join(fields, ",")
}

func formatDialogueLine(cue document.Cue) string {
	ass := &document.ASSCueData{}
	if cue.FormatSpecific != nil && cue.FormatSpecific.ASS != nil {
		ass = cue.FormatSpecific.ASS
	}

	text := cueBody(cue)
	text = strings.ReplaceAll(text, "\n", `\N`)
	if cue.Layout != nil && !strings.Contains(text, `\pos(`) {
		text = fmt.Sprintf(
			`{\pos(%s,%s)}`,
			formatFloat(cue.Layout.X),
			formatFloat(cue.Layout.Y),
		) + text
	}

	styleName := cue.Style
	if styleName == "" {
		styleName = "Default"
	}

	fields := []string{
		strconv.Itoa(ass.Layer),
		timecode.FromMs(cue.StartTime, timecode.FormatASS),
		timecode.FromMs(cue.EndTime, timecode.FormatASS),
		styleName,
		ass.Actor,
		strconv.Itoa(ass.MarginL),
		strconv.Itoa(ass.MarginR),
		strconv.Itoa(ass.MarginV),
		ass.Effect,
		text,
	}
	return "Dialogue: " + strings.Join(fields, ",")
}

func assBoolField(b bool) string {
	if b {
		return "-1"
	}
	return "0"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func defaultFloat(f, fallback float64) float64 {
	if f == 0 {
		return fallback
	}
	return f
}

func defaultInt(n, fallback int) int {
	if n == 0 {
		return fallback
	}
	return n
}
