package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "UNIQUE constraint failed"),
		strings.Contains(errStr, "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%w: %s", ErrDuplicate, errStr)
	case strings.Contains(errStr, "FOREIGN KEY constraint failed"),
		strings.Contains(errStr, "CHECK constraint failed"),
		strings.Contains(errStr, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %s", ErrConstraint, errStr)
	case strings.Contains(errStr, "readonly database"),
		strings.Contains(errStr, "not authorized"):
		return fmt.Errorf("%w: %s", ErrPermission, errStr)
	}
	return err
}

const sourceColumns = "id, label, url, media_kind, language, enabled, catalog_id, season, episode, created_at"

func insertSource(ctx context.Context, q querier, src Source) (Source, error) {
	src.ID = uuid.NewString()
	src.CreatedAt = time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO sources (`+sourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Label, src.URL, src.MediaKind, src.Language, src.Enabled,
		src.CatalogID, src.Season, src.Episode, src.CreatedAt,
	)
	if err != nil {
		return Source{}, fmt.Errorf("insert source %s: %w", src.URL, mapSQLiteError(err))
	}
	return src, nil
}

// InsertOne inserts a source and returns it with ID and CreatedAt set.
func (s *SQLiteStore) InsertOne(ctx context.Context, src Source) (Source, error) {
	return insertSource(ctx, s.db, src)
}

// InsertOne inserts a source within a transaction.
func (t *Tx) InsertOne(ctx context.Context, src Source) (Source, error) {
	return insertSource(ctx, t.tx, src)
}

// InsertMany inserts all sources in one transaction. Either every source is
// stored or none is.
func (s *SQLiteStore) InsertMany(ctx context.Context, sources []Source) ([]Source, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := make([]Source, 0, len(sources))
	for _, src := range sources {
		stored, err := tx.InsertOne(ctx, src)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

func deleteSources(ctx context.Context, q querier, ids []string) error {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	_, err := q.ExecContext(ctx,
		"DELETE FROM sources WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return fmt.Errorf("delete %d sources: %w", len(ids), mapSQLiteError(err))
	}
	return nil
}

// DeleteOneByID removes a source by ID.
// This operation is idempotent - no error is returned if the source does not exist.
func (s *SQLiteStore) DeleteOneByID(ctx context.Context, id string) error {
	return deleteSources(ctx, s.db, []string{id})
}

// DeleteManyByIDs removes all listed sources in one statement.
func (s *SQLiteStore) DeleteManyByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return deleteSources(ctx, s.db, ids)
}

func scanSource(row interface{ Scan(...any) error }) (Source, error) {
	var src Source
	err := row.Scan(&src.ID, &src.Label, &src.URL, &src.MediaKind, &src.Language, &src.Enabled,
		&src.CatalogID, &src.Season, &src.Episode, &src.CreatedAt)
	return src, err
}

// Get retrieves a source by ID.
// Returns ErrNotFound if the source does not exist.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Source, error) {
	src, err := scanSource(s.db.QueryRowContext(ctx,
		"SELECT "+sourceColumns+" FROM sources WHERE id = ?", id))
	if err != nil {
		return Source{}, fmt.Errorf("get source %s: %w", id, mapSQLiteError(err))
	}
	return src, nil
}

// List returns sources matching the filter ordered by season, episode and label.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Source, error) {
	var conditions []string
	var args []any

	if f.CatalogID != nil {
		conditions = append(conditions, "catalog_id = ?")
		args = append(args, *f.CatalogID)
	}
	if f.Season != nil {
		conditions = append(conditions, "season = ?")
		args = append(args, *f.Season)
	}
	if f.Language != nil {
		conditions = append(conditions, "language = ?")
		args = append(args, *f.Language)
	}

	query := "SELECT " + sourceColumns + " FROM sources"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY catalog_id, season, episode, label"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		results = append(results, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return results, nil
}
