package format

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/timecode"
)

// WebVTT block grammar with NOTE/STYLE metadata blocks, optional cue
// identifiers, and cue settings after the time range. Comma millisecond
// separators are accepted on input and normalized to dots on output.
type VTTAdapter struct{}

var vttTimeLinePattern = regexp.MustCompile(
	`^\s*((?:\d{2,}:)?\d{2}:\d{2}[.,]\d{3})\s*-->\s*((?:\d{2,}:)?\d{2}:\d{2}[.,]\d{3})\s*(.*)$`,
)

func (a *VTTAdapter) Format() document.Format {
	return document.FormatVTT
}

func (a *VTTAdapter) Parse(text string) (*document.Document, error) {
	body := stripBOM(text)

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanHeader(scanner) {
		return nil, fmt.Errorf(
			"missing WEBVTT header: %w",
			document.ErrInvalidFormat,
		)
	}

	doc := document.New(document.FormatVTT)
	var notes []any
	var styleBlocks []any

	var current *document.Cue
	var textLines []string
	pendingIdentifier := ""

	flush := func() {
		if current != nil && len(textLines) > 0 {
			content := strings.Join(textLines, "\n")
			current.Content = content
			current.Text = document.StripMarkup(content)
			current.SyncDuration()
			doc.Cues = append(doc.Cues, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if current == nil && strings.HasPrefix(trimmed, "NOTE") {
			notes = append(notes, collectBlock(scanner, line))
			pendingIdentifier = ""
			continue
		}
		if current == nil && trimmed == "STYLE" {
			styleBlocks = append(styleBlocks, collectBlock(scanner, line))
			pendingIdentifier = ""
			continue
		}

		if trimmed == "" {
			flush()
			pendingIdentifier = ""
			continue
		}

		if matches := vttTimeLinePattern.FindStringSubmatch(line); matches != nil {
			flush()

			start, errStart := parseVTTTime(matches[1])
			end, errEnd := parseVTTTime(matches[2])
			if errStart != nil || errEnd != nil {
				// unparseable range, drop the record
				pendingIdentifier = ""
				continue
			}

			current = &document.Cue{
				StartTime:  start,
				EndTime:    end,
				Identifier: pendingIdentifier,
			}
			if settings := strings.TrimSpace(matches[3]); settings != "" {
				current.FormatSpecific = &document.CueExtensions{
					VTT: parseCueSettings(settings),
				}
			}
			pendingIdentifier = ""
			continue
		}

		if current == nil {
			// a line right before a timestamp is the cue identifier
			pendingIdentifier = trimmed
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT input: %w", err)
	}

	if len(notes) > 0 || len(styleBlocks) > 0 {
		bag := map[string]any{}
		if len(notes) > 0 {
			bag["notes"] = notes
		}
		if len(styleBlocks) > 0 {
			bag["styles"] = styleBlocks
		}
		doc.Metadata.FormatSpecific = map[string]map[string]any{"vtt": bag}
	}

	doc.Reindex()
	return doc, nil
}

// scanHeader consumes lines up to and including the WEBVTT line.
func scanHeader(scanner *bufio.Scanner) bool {
	for scanner.Scan() {
		line := strings.TrimSpace(stripBOM(scanner.Text()))
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, "WEBVTT")
	}
	return false
}

// collectBlock gathers a NOTE/STYLE block until its blank-line end.
func collectBlock(scanner *bufio.Scanner, first string) string {
	lines := []string{first}
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			break
		}
		lines = append(lines, scanner.Text())
	}
	return strings.Join(lines, "\n")
}

// parseVTTTime accepts full or short form and either millisecond
// separator.
func parseVTTTime(ts string) (int64, error) {
	ts = strings.ReplaceAll(strings.TrimSpace(ts), ",", ".")
	if strings.Count(ts, ":") == 1 {
		ts = "00:" + ts
	}
	return timecode.ToMs(ts, timecode.FormatVTT)
}

func parseCueSettings(settings string) *document.VTTCueData {
	data := &document.VTTCueData{}
	for _, field := range strings.Fields(settings) {
		key, value, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		switch key {
		case "region":
			data.Region = value
		case "vertical":
			data.Vertical = value
		case "line":
			data.Line = value
		case "position":
			data.Position = value
		case "size":
			data.Size = value
		case "align":
			data.Align = value
		}
	}
	return data
}

func (a *VTTAdapter) Serialize(doc *document.Document) (string, error) {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	if bag, ok := doc.Metadata.FormatSpecific["vtt"]; ok {
		writeMetaBlocks(&sb, bag["notes"])
		writeMetaBlocks(&sb, bag["styles"])
	}

	for i, cue := range doc.Cues {
		if cue.Identifier != "" {
			sb.WriteString(cue.Identifier + "\n")
		} else {
			sb.WriteString(fmt.Sprintf("%d\n", i+1))
		}

		sb.WriteString(fmt.Sprintf("%s --> %s",
			timecode.FromMs(cue.StartTime, timecode.FormatVTT),
			timecode.FromMs(cue.EndTime, timecode.FormatVTT)))
		if cue.FormatSpecific != nil && cue.FormatSpecific.VTT != nil {
			if settings := formatCueSettings(cue.FormatSpecific.VTT); settings != "" {
				sb.WriteString(" " + settings)
			}
		}
		sb.WriteString("\n")

		sb.WriteString(cueBody(cue))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

func writeMetaBlocks(sb *strings.Builder, blocks any) {
	list, ok := blocks.([]any)
	if !ok {
		return
	}
	for _, block := range list {
		if text, ok := block.(string); ok {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}
}

func formatCueSettings(data *document.VTTCueData) string {
	var parts []string
	appendSetting := func(key, value string) {
		if value != "" {
			parts = append(parts, key+":"+value)
		}
	}
	appendSetting("region", data.Region)
	appendSetting("vertical", data.Vertical)
	appendSetting("line", data.Line)
	appendSetting("position", data.Position)
	appendSetting("size", data.Size)
	appendSetting("align", data.Align)
	return strings.Join(parts, " ")
}
