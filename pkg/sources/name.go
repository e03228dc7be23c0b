package sources

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultProvider labels an array whose provider could not be worked out.
const DefaultProvider = "Source"

// arrayPrefixes are the English and French words operators put in front of
// array names. Longer forms precede their stems.
var arrayPrefixes = []string{
	"episodes", "episode", "eps", "ep",
	"videos", "video",
	"liens", "lien", "links", "link",
	"lecteurs", "lecteur", "players", "player",
	"sources", "source", "src",
}

// NameFromArray derives a provider label from an array identifier such as
// "eps_vidmoly" or "lecteurSibnet". Returns "" when nothing but the prefix,
// separators or digits remain.
func NameFromArray(name string) string {
	s := strings.ToLower(foldAccents(strings.TrimSpace(name)))
	if s == "" || s == DefaultArrayName {
		return ""
	}
	for _, prefix := range arrayPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if s == "" {
		return ""
	}
	return canonicalName(s)
}

// canonicalName title-cases s unless it names a known provider, in which
// case the table's spelling wins ("sendvid" becomes "SendVid").
func canonicalName(s string) string {
	for _, p := range providers {
		if strings.EqualFold(s, p.Name) {
			return p.Name
		}
	}
	return titleCase(s)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
