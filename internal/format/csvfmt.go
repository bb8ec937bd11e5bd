package format

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/subweave/subweave/internal/document"
	"github.com/subweave/subweave/internal/timecode"
)

// CSVAdapter reads the tabular transcription export:
//
//	[relStart],[relEnd],character,text,,confidence,[absStart],[absEnd]
//
// Such files routinely interleave header rows, annotations, and blank
// separators with data rows, so a row is accepted only when both time
// columns are bracket-delimited and time-parseable; everything else is
// silently skipped.
type CSVAdapter struct{}

func (a *CSVAdapter) Format() document.Format {
	return document.FormatCSV
}

func (a *CSVAdapter) Parse(text string) (*document.Document, error) {
	doc := document.New(document.FormatCSV)

	// rows are parsed line by line so one garbled row cannot poison
	// the rest of the file
	for _, line := range strings.Split(stripBOM(text), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		reader := csv.NewReader(strings.NewReader(line))
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		fields, err := reader.Read()
		if err != nil || len(fields) < 4 {
			continue
		}

		start, ok := bracketTime(fields[0])
		if !ok {
			continue
		}
		end, ok := bracketTime(fields[1])
		if !ok {
			continue
		}

		character := strings.TrimSpace(fields[2])
		body := fields[3]

		csvData := &document.CSVCueData{Character: character}
		if len(fields) > 5 {
			csvData.Confidence, _ = strconv.ParseFloat(
				strings.TrimSpace(fields[5]),
				64,
			)
		}
		if len(fields) > 6 {
			if abs, ok := bracketTime(fields[6]); ok {
				csvData.AbsStart = abs
			}
		}
		if len(fields) > 7 {
			if abs, ok := bracketTime(fields[7]); ok {
				csvData.AbsEnd = abs
			}
		}

		cue := document.Cue{
			StartTime:      start,
			EndTime:        end,
			Text:           body,
			Content:        body,
			Style:          character,
			FormatSpecific: &document.CueExtensions{CSV: csvData},
		}
		cue.SyncDuration()
		doc.Cues = append(doc.Cues, cue)
	}

	doc.Reindex()
	return doc, nil
}

// bracketTime accepts only a [H:MM:SS.cc] field and returns its
// canonical milliseconds.
func bracketTime(field string) (int64, bool) {
	field = strings.TrimSpace(field)
	if !strings.HasPrefix(field, "[") || !strings.HasSuffix(field, "]") {
		return 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(field, "["), "]")
	ms, err := timecode.ToMs(inner, timecode.FormatASS)
	if err != nil {
		return 0, false
	}
	return ms, true
}

func (a *CSVAdapter) Serialize(doc *document.Document) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	for _, cue := range doc.Cues {
		var data document.CSVCueData
		if cue.FormatSpecific != nil && cue.FormatSpecific.CSV != nil {
			data = *cue.FormatSpecific.CSV
		}

		character := data.Character
		if character == "" {
			character = cue.Style
		}

		record := []string{
			"[" + timecode.FromMs(cue.StartTime, timecode.FormatASS) + "]",
			"[" + timecode.FromMs(cue.EndTime, timecode.FormatASS) + "]",
			character,
			cue.Text,
			"",
			formatConfidence(data.Confidence),
			"[" + timecode.FromMs(data.AbsStart, timecode.FormatASS) + "]",
			"[" + timecode.FromMs(data.AbsEnd, timecode.FormatASS) + "]",
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return sb.String(), nil
}

func formatConfidence(confidence float64) string {
	if confidence == 0 {
		return ""
	}
	return strconv.FormatFloat(confidence, 'g', -1, 64)
}
