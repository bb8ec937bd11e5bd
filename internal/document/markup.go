package document

import (
	"regexp"
	"strings"
)

var (
	overrideBlockPattern = regexp.MustCompile(`\{[^}]*\}`)
	angleTagPattern      = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
)

// StripMarkup turns rich cue content into plain display text: ASS
// override blocks and HTML-style tags are removed, hard breaks become
// newlines, soft breaks and nonbreaking spaces become plain spaces.
func StripMarkup(content string) string {
	s := overrideBlockPattern.ReplaceAllString(content, "")
	s = strings.ReplaceAll(s, `\N`, "\n")
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, `\h`, " ")
	s = angleTagPattern.ReplaceAllString(s, "")
	return s
}
