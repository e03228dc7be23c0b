package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vmunix/embedarr/internal/migrations"
)

// pgQuerier abstracts *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OpenPostgres connects to dsn and applies the schema.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range migrations.Statements(migrations.PostgresInitialSQL) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply schema: %w", mapPGError(err))
		}
	}
	return pool, nil
}

// mapPGError converts PostgreSQL errors to custom error types.
func mapPGError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.Message)
	case "23502", "23503", "23514": // not_null, foreign_key, check
		return fmt.Errorf("%w: %s", ErrConstraint, pgErr.Message)
	case "42501", "25006": // insufficient_privilege (also RLS), read_only_sql_transaction
		return fmt.Errorf("%w: %s", ErrPermission, pgErr.Message)
	case "22P02": // invalid_text_representation, e.g. a malformed uuid
		return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Message)
	}
	return err
}

// PGStore is a Repository backed by PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a new PostgreSQL-backed store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

var _ Repository = (*PGStore)(nil)

const pgSourceColumns = "id::text, label, url, media_kind, language, enabled, catalog_id, season, episode, created_at"

func pgInsertSource(ctx context.Context, q pgQuerier, src Source) (Source, error) {
	err := q.QueryRow(ctx, `
		INSERT INTO sources (label, url, media_kind, language, enabled, catalog_id, season, episode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at`,
		src.Label, src.URL, string(src.MediaKind), src.Language, src.Enabled,
		src.CatalogID, src.Season, src.Episode,
	).Scan(&src.ID, &src.CreatedAt)
	if err != nil {
		return Source{}, fmt.Errorf("insert source %s: %w", src.URL, mapPGError(err))
	}
	return src, nil
}

// InsertOne inserts a source and returns it with ID and CreatedAt set.
func (s *PGStore) InsertOne(ctx context.Context, src Source) (Source, error) {
	return pgInsertSource(ctx, s.pool, src)
}

// InsertMany inserts all sources in one transaction.
func (s *PGStore) InsertMany(ctx context.Context, sources []Source) ([]Source, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", mapPGError(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := make([]Source, 0, len(sources))
	for _, src := range sources {
		stored, err := pgInsertSource(ctx, tx, src)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", mapPGError(err))
	}
	return inserted, nil
}

// DeleteOneByID removes a source by ID. Deleting a missing source is not an error.
func (s *PGStore) DeleteOneByID(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM sources WHERE id = $1::text::uuid", id); err != nil {
		return fmt.Errorf("delete source %s: %w", id, mapPGError(err))
	}
	return nil
}

// DeleteManyByIDs removes all listed sources in one statement.
func (s *PGStore) DeleteManyByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, "DELETE FROM sources WHERE id = ANY($1::text[]::uuid[])", ids); err != nil {
		return fmt.Errorf("delete %d sources: %w", len(ids), mapPGError(err))
	}
	return nil
}

// Get retrieves a source by ID.
// Returns ErrNotFound if the source does not exist.
func (s *PGStore) Get(ctx context.Context, id string) (Source, error) {
	src, err := scanSource(s.pool.QueryRow(ctx,
		"SELECT "+pgSourceColumns+" FROM sources WHERE id = $1::text::uuid", id))
	if err != nil {
		return Source{}, fmt.Errorf("get source %s: %w", id, mapPGError(err))
	}
	return src, nil
}

// List returns sources matching the filter ordered by season, episode and label.
func (s *PGStore) List(ctx context.Context, f Filter) ([]Source, error) {
	var conditions []string
	var args []any

	if f.CatalogID != nil {
		args = append(args, *f.CatalogID)
		conditions = append(conditions, fmt.Sprintf("catalog_id = $%d", len(args)))
	}
	if f.Season != nil {
		args = append(args, *f.Season)
		conditions = append(conditions, fmt.Sprintf("season = $%d", len(args)))
	}
	if f.Language != nil {
		args = append(args, *f.Language)
		conditions = append(conditions, fmt.Sprintf("language = $%d", len(args)))
	}

	query := "SELECT " + pgSourceColumns + " FROM sources"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY catalog_id, season, episode, label"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", mapPGError(err))
	}
	defer rows.Close()

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
