package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPGError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"23505", ErrDuplicate},
		{"23514", ErrConstraint},
		{"23502", ErrConstraint},
		{"42501", ErrPermission},
		{"25006", ErrPermission},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: tt.code, Message: "boom"})
			assert.ErrorIs(t, mapPGError(err), tt.want)
		})
	}

	assert.ErrorIs(t, mapPGError(pgx.ErrNoRows), ErrNotFound)
	assert.NoError(t, mapPGError(nil))

	other := errors.New("connection reset")
	assert.Equal(t, other, mapPGError(other))
}

// TestPGStore_Integration runs against a real server when
// EMBEDARR_TEST_POSTGRES_DSN is set.
func TestPGStore_Integration(t *testing.T) {
	dsn := os.Getenv("EMBEDARR_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("EMBEDARR_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	pool, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPGStore(pool)
	catalogID := int64(900000001)
	_, err = pool.Exec(ctx, "DELETE FROM sources WHERE catalog_id = $1", catalogID)
	require.NoError(t, err)

	got, err := store.InsertMany(ctx, []Source{
		testSource(catalogID, 1, "https://sibnet.ru/v/pg1"),
		testSource(catalogID, 2, "https://sibnet.ru/v/pg2"),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = store.InsertOne(ctx, testSource(catalogID, 3, "https://sibnet.ru/v/pg1"))
	assert.ErrorIs(t, err, ErrDuplicate)

	list, err := store.List(ctx, Filter{CatalogID: &catalogID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.DeleteManyByIDs(ctx, []string{got[0].ID}))
	require.NoError(t, store.DeleteOneByID(ctx, got[1].ID))

	_, err = store.Get(ctx, got[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
