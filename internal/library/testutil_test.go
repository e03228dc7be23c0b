// internal/library/testutil_test.go
package library

import (
	"database/sql"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func testSource(catalogID int64, episode int, url string) Source {
	return Source{
		Label:     "Show - Sibnet S01E01",
		URL:       url,
		MediaKind: MediaKindAnime,
		Language:  "vostfr",
		Enabled:   true,
		CatalogID: catalogID,
		Season:    ptr(1),
		Episode:   episode,
	}
}
