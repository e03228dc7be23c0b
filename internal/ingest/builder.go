// Package ingest turns parsed URL arrays into episode source records.
package ingest

import (
	"fmt"
	"strings"

	"github.com/vmunix/embedarr/internal/library"
	"github.com/vmunix/embedarr/pkg/sources"
)

// Skip is a URL dropped while building records. Index is its position in
// its array; the URLs after it keep their position-derived episode number.
type Skip struct {
	Array  string `json:"array"`
	Index  int    `json:"index"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Payload is the set of records ready for insertion.
type Payload struct {
	Records []library.Source `json:"records"`
	Skipped []Skip           `json:"skipped,omitempty"`
}

// Build creates one record per URL. Episodes are numbered per array from 1
// in array order; arrays are concatenated without renumbering. meta is
// expected to have passed Validate; with an unknown kind every URL is
// skipped rather than stored under a kind the store would reject.
func Build(arrays []sources.ParsedArray, meta Meta) Payload {
	kind, kindErr := ParseMediaKind(meta.Kind)

	var p Payload
	for _, arr := range arrays {
		for i, u := range arr.URLs {
			if kindErr != nil {
				p.Skipped = append(p.Skipped, Skip{Array: arr.Name, Index: i, URL: u, Reason: kindErr.Error()})
				continue
			}
			if !sources.IsValidURL(u) {
				p.Skipped = append(p.Skipped, Skip{Array: arr.Name, Index: i, URL: u, Reason: "not an absolute URL"})
				continue
			}
			episode := i + 1
			p.Records = append(p.Records, library.Source{
				Label:     Label(meta.Title, arr.Provider, meta.Season, episode),
				URL:       u,
				MediaKind: kind,
				Language:  meta.Language,
				Enabled:   true,
				CatalogID: meta.CatalogID,
				Season:    copyInt(meta.Season),
				Episode:   episode,
			})
		}
	}
	return p
}

// FromText parses text and builds records for it. It returns ErrNoURLs when
// nothing usable was found.
func FromText(text string, meta Meta) (sources.Result, Payload, error) {
	res := sources.Parse(text)
	p := Build(res.Arrays, meta)
	if len(p.Records) == 0 {
		return res, p, ErrNoURLs
	}
	return res, p, nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// Label formats a record label such as "Show - Sibnet S01E03".
func Label(title, provider string, season *int, episode int) string {
	var b strings.Builder
	b.WriteString(title)
	if provider != "" {
		b.WriteString(" - ")
		b.WriteString(provider)
	}
	b.WriteByte(' ')
	if season != nil {
		fmt.Fprintf(&b, "S%02d", *season)
	}
	fmt.Fprintf(&b, "E%02d", episode)
	return b.String()
}
