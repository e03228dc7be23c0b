// internal/importer/sanitize.go
package importer

import (
	"regexp"
	"strings"
	"unicode"
)

// multiSpace matches runs of whitespace.
var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeTitle strips control characters from a pasted title and collapses
// whitespace, so labels stay on one line.
func SanitizeTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, title)
	title = multiSpace.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
