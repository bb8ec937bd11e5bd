package format

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/timecode"
)

// SubRip block grammar: optional sequence number, time range, one or
// more text lines, blank-line separator.
type SRTAdapter struct{}

var srtTimeLinePattern = regexp.MustCompile(
	`^\s*(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})\s*$`,
)

func (a *SRTAdapter) Format() document.Format {
	return document.FormatSRT
}

func (a *SRTAdapter) Parse(text string) (*document.Document, error) {
	doc := document.New(document.FormatSRT)

	scanner := bufio.NewScanner(strings.NewReader(stripBOM(text)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var current *document.Cue
	var textLines []string
	sawNumber := false

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
		sawNumber = false
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		// a bare number between blocks is the sequence line; a missing
		// or garbled one is tolerated and the index recomputed anyway
		if current == nil && !sawNumber {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				sawNumber = true
				continue
			}
		}

		if current == nil {
			if matches := srtTimeLinePattern.FindStringSubmatch(line); matches != nil {
				start, errStart := timecode.ToMs(matches[1], timecode.FormatSRT)
				end, errEnd := timecode.ToMs(matches[2], timecode.FormatSRT)
				if errStart != nil || errEnd != nil {
					// unparseable record, skip the whole block
					sawNumber = false
					continue
				}
				current = &document.Cue{StartTime: start, EndTime: end}
				continue
			}
			// neither number nor time range: stray line outside a block
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT input: %w", err)
	}

	doc.Reindex()
	return doc, nil
}

func (a *SRTAdapter) Serialize(doc *document.Document) (string, error) {
	var sb strings.Builder

	for i, cue := range doc.Cues {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			timecode.FromMs(cue.StartTime, timecode.FormatSRT),
			timecode.FromMs(cue.EndTime, timecode.FormatSRT)))
		sb.WriteString(cueBody(cue))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

// cueBody picks the richest text representation a line-oriented format
// can carry.
func cueBody(cue document.Cue) string {
	if cue.Content != "" {
		return cue.Content
	}
	return cue.Text
}
