package ingest

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/embedarr/internal/library"
)

const maxLanguageLen = 8

var mediaKindAliases = map[string]library.MediaKind{
	"series":    library.MediaKindTVSeries,
	"serie":     library.MediaKindTVSeries,
	"tv":        library.MediaKindTVSeries,
	"tvshow":    library.MediaKindTVSeries,
	"show":      library.MediaKindTVSeries,
	"tv_series": library.MediaKindTVSeries,
	"tvseries":  library.MediaKindTVSeries,
	"movie":     library.MediaKindMovie,
	"film":      library.MediaKindMovie,
	"anime":     library.MediaKindAnime,
}

// suggestThreshold is the Jaro-Winkler similarity above which an unknown
// kind gets a "did you mean" hint.
const suggestThreshold = 0.85

// ParseMediaKind maps operator spellings onto the stored media kinds.
// Matching is case-insensitive, so "tvSeries" and "TV" both resolve.
func ParseMediaKind(s string) (library.MediaKind, error) {
	s = strings.TrimSpace(s)
	if kind := library.MediaKind(s); kind.Valid() {
		return kind, nil
	}
	lower := strings.ToLower(s)
	if kind, ok := mediaKindAliases[lower]; ok {
		return kind, nil
	}
	if alias := closestAlias(lower); alias != "" {
		return "", fmt.Errorf("unknown media kind %q, did you mean %q?", s, alias)
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

func closestAlias(s string) string {
	if s == "" {
		return ""
	}
	aliases := slices.Sorted(maps.Keys(mediaKindAliases))
	best, bestScore := "", float32(0)
	for _, alias := range aliases {
		if score := edlib.JaroWinklerSimilarity(s, alias); score > bestScore {
			best, bestScore = alias, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}

// Meta is the operator-supplied metadata shared by every record of a run.
type Meta struct {
	CatalogID int64
	Title     string
	Kind      string
	Season    *int // nil for entries without seasons
	Language  string
}

// Validate checks m and returns it normalized: title trimmed, kind
// canonical, language lowercased or set to defaultLanguage when empty.
func (m Meta) Validate(defaultLanguage string) (Meta, error) {
	verr := &ValidationError{}

	if m.CatalogID <= 0 {
		verr.add(fmt.Sprintf("catalog_id: must be positive, got %d", m.CatalogID))
	}

	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		verr.add("title: required")
	}

	if kind, err := ParseMediaKind(m.Kind); err != nil {
		verr.add("kind: " + err.Error())
	} else {
		m.Kind = string(kind)
	}

	if m.Season != nil && *m.Season < 0 {
		verr.add(fmt.Sprintf("season: must be >= 0, got %d", *m.Season))
	}

	m.Language = strings.ToLower(strings.TrimSpace(m.Language))
	if m.Language == "" {
		m.Language = strings.ToLower(defaultLanguage)
	}
	switch {
	case m.Language == "":
		verr.add("language: required")
	case len(m.Language) > maxLanguageLen:
		verr.add(fmt.Sprintf("language: at most %d letters, got %q", maxLanguageLen, m.Language))
	case strings.IndexFunc(m.Language, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0:
		verr.add(fmt.Sprintf("language: letters only, got %q", m.Language))
	}

	if len(verr.Errors) > 0 {
		return m, verr
	}
	return m, nil
}
