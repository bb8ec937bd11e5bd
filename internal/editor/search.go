package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/subweave/subweave/internal/document"
)

// SearchOptions narrows a text query. The zero value is a plain
// case-insensitive substring search over visible text.
type SearchOptions struct {
	Regex          bool
	CaseSensitive  bool
	IncludeContent bool // also match against raw formatted content

	// Containment time window: cues must start at or after StartMs,
	// and when EndMs > 0 also end at or before EndMs.
	StartMs int64
	EndMs   int64

	Styles []string // restrict to cues referencing one of these styles
	Layers []int    // restrict to cues on one of these ASS layers
}

// Search returns the 1-based indices of matching cues in document
// order.
func (e *Editor) Search(query string, opts SearchOptions) ([]int, error) {
	match, err := compileMatcher(query, opts)
	if err != nil {
		return nil, err
	}

	styleSet := map[string]bool{}
	for _, s := range opts.Styles {
		styleSet[s] = true
	}
	layerSet := map[int]bool{}
	for _, l := range opts.Layers {
		layerSet[l] = true
	}

	var indices []int
	for i := range e.doc.Cues {
		cue := &e.doc.Cues[i]

		if cue.StartTime < opts.StartMs {
			continue
		}
		if opts.EndMs > 0 && cue.EndTime > opts.EndMs {
			continue
		}
		if len(styleSet) > 0 && !styleSet[cue.Style] {
			continue
		}
		if len(layerSet) > 0 && !layerSet[cueLayer(cue)] {
			continue
		}

		if match(cue.Text) ||
			(opts.IncludeContent && match(cue.Content)) {
			indices = append(indices, i+1)
		}
	}
	return indices, nil
}

// Replace rewrites every Search match in one undo step. It returns the
// number of cues changed.
func (e *Editor) Replace(
	query, replacement string,
	opts SearchOptions,
) (int, error) {
	indices, err := e.Search(query, opts)
	if err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, nil
	}

	var pattern *regexp.Regexp
	if opts.Regex {
		pattern, err = regexp.Compile(flaggedPattern(query, opts))
		if err != nil {
			return 0, fmt.Errorf("invalid search pattern: %w", err)
		}
	} else {
		pattern = regexp.MustCompile(
			flaggedPattern(regexp.QuoteMeta(query), opts),
		)
	}

	err = e.Batch(func() error {
		for _, index := range indices {
			cue := &e.doc.Cues[index-1]
			cue.Text = pattern.ReplaceAllString(cue.Text, replacement)
			switch {
			case opts.IncludeContent:
				cue.Content = pattern.ReplaceAllString(cue.Content, replacement)
			case strings.ContainsAny(cue.Content, `{<`):
				cue.Content = replaceOutsideTags(cue.Content, pattern, replacement)
			default:
				cue.Content = cue.Text
			}
			e.emit("fragmentUpdated", map[string]any{"index": index})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(indices), nil
}

func compileMatcher(
	query string,
	opts SearchOptions,
) (func(string) bool, error) {
	if opts.Regex {
		pattern, err := regexp.Compile(flaggedPattern(query, opts))
		if err != nil {
			return nil, fmt.Errorf("invalid search pattern: %w", err)
		}
		return pattern.MatchString, nil
	}

	if opts.CaseSensitive {
		return func(s string) bool {
			return strings.Contains(s, query)
		}, nil
	}
	lowered := strings.ToLower(query)
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), lowered)
	}, nil
}

func flaggedPattern(pattern string, opts SearchOptions) string {
	if opts.CaseSensitive {
		return pattern
	}
	return "(?i)" + pattern
}

// replaceOutsideTags applies a replacement to the plain segments of a
// rich-text body, leaving {...} override blocks and <...> tags intact
// so a text edit cannot corrupt markup.
func replaceOutsideTags(
	content string,
	pattern *regexp.Regexp,
	replacement string,
) string {
	var b strings.Builder
	plainStart := 0
	i := 0
	for i < len(content) {
		open := content[i]
		if open != '{' && open != '<' {
			i++
			continue
		}
		closer := byte('}')
		if open == '<' {
			closer = '>'
		}
		end := strings.IndexByte(content[i:], closer)
		if end == -1 {
			break
		}
		b.WriteString(pattern.ReplaceAllString(content[plainStart:i], replacement))
		b.WriteString(content[i : i+end+1])
		i += end + 1
		plainStart = i
	}
	b.WriteString(pattern.ReplaceAllString(content[plainStart:], replacement))
	return b.String()
}

func cueLayer(cue *document.Cue) int {
	if cue.FormatSpecific != nil && cue.FormatSpecific.ASS != nil {
		return cue.FormatSpecific.ASS.Layer
	}
	return 0
}
