// Package library stores the episode sources attached to catalog entries.
package library

import (
	"context"
	"time"
)

// MediaKind distinguishes movies, series and anime.
type MediaKind string

const (
	MediaKindMovie    MediaKind = "movie"
	MediaKindTVSeries MediaKind = "tvSeries"
	MediaKindAnime    MediaKind = "anime"
)

// Valid reports whether k is one of the stored media kinds.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindMovie, MediaKindTVSeries, MediaKindAnime:
		return true
	}
	return false
}

// Source is one playable URL for an episode of a catalog entry.
type Source struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	MediaKind MediaKind `json:"media_kind"`
	Language  string    `json:"language"`
	Enabled   bool      `json:"enabled"`
	CatalogID int64     `json:"catalog_id"`
	Season    *int      `json:"season"` // nil when the entry has no seasons
	Episode   int       `json:"episode"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows List results. Nil fields are ignored.
type Filter struct {
	CatalogID *int64
	Season    *int
	Language  *string
	Limit     int
	Offset    int
}

// Repository is the record store behind bulk imports and deletions.
// InsertMany and DeleteManyByIDs are all-or-nothing.
//
//go:generate mockgen -source=library.go -destination=mocks/repository.go -package=mocks
type Repository interface {
	InsertMany(ctx context.Context, sources []Source) ([]Source, error)
	InsertOne(ctx context.Context, src Source) (Source, error)
	DeleteManyByIDs(ctx context.Context, ids []string) error
	DeleteOneByID(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Source, error)
	List(ctx context.Context, f Filter) ([]Source, error)
}
