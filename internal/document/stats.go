package document

import "unicode/utf8"

// aggregate figures over one document, computed in a single pass
type Stats struct {
	CueCount      int   `json:"cueCount"`
	StyleCount    int   `json:"styleCount"`
	TotalDuration int64 `json:"totalDuration"`
	MinDuration   int64 `json:"minDuration"`
	MaxDuration   int64 `json:"maxDuration"`
	AvgDuration   int64 `json:"avgDuration"`
	CharCount     int   `json:"charCount"`
	FirstStart    int64 `json:"firstStart"`
	LastEnd       int64 `json:"lastEnd"`
}

// Stats computes O(n) aggregates. Cues are not assumed time-sorted, so
// first/last bounds scan every cue.
func (d *Document) Stats() Stats {
	s := Stats{
		CueCount:   len(d.Cues),
		StyleCount: len(d.Styles),
	}
	if len(d.Cues) == 0 {
		return s
	}

	s.FirstStart = d.Cues[0].StartTime
	s.LastEnd = d.Cues[0].EndTime
	s.MinDuration = d.Cues[0].EndTime - d.Cues[0].StartTime

	for _, c := range d.Cues {
		duration := c.EndTime - c.StartTime
		s.TotalDuration += duration
		if duration < s.MinDuration {
			s.MinDuration = duration
		}
		if duration > s.MaxDuration {
			s.MaxDuration = duration
		}
		s.CharCount += utf8.RuneCountInString(c.Text)
		if c.StartTime < s.FirstStart {
			s.FirstStart = c.StartTime
		}
		if c.EndTime > s.LastEnd {
			s.LastEnd = c.EndTime
		}
	}

	s.AvgDuration = s.TotalDuration / int64(len(d.Cues))
	return s
}
