package format

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/subweave/subweave/internal/document"
)

// Helpers for the ASS inline override micro-language: `{...}` blocks
// carrying positioning, color, alignment, and style toggles.

var (
	posTagPattern = regexp.MustCompile(
		`\\pos\(\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)`,
	)
	alignTagPattern  = regexp.MustCompile(`\\an([1-9])`)
	colorTagPattern  = regexp.MustCompile(`\\1?c&H([0-9A-Fa-f]{2,8})&`)
	toggleTagPattern = regexp.MustCompile(`\\([ibu])(\d+)`)
)

// ExtractPosition pulls the first \pos(x,y) override, or nil.
func ExtractPosition(content string) *document.Layout {
	matches := posTagPattern.FindStringSubmatch(content)
	if matches == nil {
		return nil
	}
	x, _ := strconv.ParseFloat(matches[1], 64)
	y, _ := strconv.ParseFloat(matches[2], 64)
	return &document.Layout{X: x, Y: y}
}

// ExtractAlignment pulls the first \an1..9 override, or 0.
func ExtractAlignment(content string) int {
	matches := alignTagPattern.FindStringSubmatch(content)
	if matches == nil {
		return 0
	}
	n, _ := strconv.Atoi(matches[1])
	return n
}

// ExtractColor pulls the first \c or \1c color override as raw ASS hex
// digits (AABBGGRR or BBGGRR), or empty.
func ExtractColor(content string) string {
	matches := colorTagPattern.FindStringSubmatch(content)
	if matches == nil {
		return ""
	}
	return matches[1]
}

// ColorToCSS converts ASS &H-style hex (BGR byte order, optional
// leading alpha) to a CSS #RRGGBB color. Empty input maps to empty.
func ColorToCSS(assHex string) string {
	if assHex == "" {
		return ""
	}
	hex := strings.TrimSuffix(strings.TrimPrefix(assHex, "&H"), "&")
	if len(hex) > 6 {
		hex = hex[len(hex)-6:] // drop alpha
	}
	for len(hex) < 6 {
		hex = "0" + hex
	}
	bb, gg, rr := hex[0:2], hex[2:4], hex[4:6]
	return "#" + strings.ToUpper(rr+gg+bb)
}

// ExtractSpans maps \i, \b, and \u toggle pairs onto plain-text rune
// offsets, so consumers that cannot replay override tags still see
// where inline emphasis sat. Unclosed toggles run to end of text.
func ExtractSpans(content string) []document.Span {
	var spans []document.Span
	open := map[string]int{} // tag letter -> plain-text start offset

	names := map[string]string{"i": "italic", "b": "bold", "u": "underline"}
	offset := 0
	rest := content

	for rest != "" {
		idx := strings.Index(rest, "{")
		if idx == -1 {
			offset += plainLength(rest)
			break
		}

		end := strings.Index(rest[idx:], "}")
		if end == -1 {
			// unterminated block stays in the plain text verbatim
			offset += plainLength(rest)
			break
		}

		offset += plainLength(rest[:idx])
		block := rest[idx : idx+end+1]
		rest = rest[idx+end+1:]

		for _, toggle := range toggleTagPattern.FindAllStringSubmatch(block, -1) {
			letter := toggle[1]
			value, _ := strconv.Atoi(toggle[2])
			if value != 0 {
				if _, active := open[letter]; !active {
					open[letter] = offset
				}
			} else if start, active := open[letter]; active {
				if offset > start {
					spans = append(spans, document.Span{
						Start: start,
						End:   offset,
						Type:  names[letter],
					})
				}
				delete(open, letter)
			}
		}
	}

	for letter, start := range open {
		if offset > start {
			spans = append(spans, document.Span{
				Start: start,
				End:   offset,
				Type:  names[letter],
			})
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].Type < spans[j].Type
	})

	return spans
}

// plainLength counts the visible runes a raw ASS text segment yields
// after break/space escapes collapse to single characters.
func plainLength(segment string) int {
	s := strings.ReplaceAll(segment, `\N`, "\n")
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, `\h`, " ")
	return utf8.RuneCountInString(s)
}
