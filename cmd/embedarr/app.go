package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/internal/batch"
	"github.com/vmunix/embedarr/internal/config"
	"github.com/vmunix/embedarr/internal/events"
	"github.com/vmunix/embedarr/internal/importer"
	"github.com/vmunix/embedarr/internal/library"
	"github.com/vmunix/embedarr/internal/logging"
)

// app holds what the store-backed commands share.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	repo     library.Repository
	eventLog *events.EventLog // nil for postgres
	bus      *events.Bus
	registry *prometheus.Registry
	metrics  *batch.Metrics

	db   *sql.DB
	pool *pgxpool.Pool
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func openApp(ctx context.Context, flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format),
		registry: prometheus.NewRegistry(),
	}
	a.metrics = batch.NewMetrics(a.registry)

	switch cfg.Database.Driver {
	case "postgres":
		pool, err := library.OpenPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.repo = library.NewPGStore(pool)
	default:
		db, err := library.OpenSQLite(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.repo = library.NewSQLiteStore(db)
		a.eventLog = events.NewEventLog(db)
	}

	a.bus = events.NewBus(a.eventLog, a.logger.With("component", "bus"))
	return a, nil
}

func (a *app) session(catalogID int64) *importer.Session {
	return importer.NewSession(a.repo, catalogID, importer.Config{
		Insert:          a.cfg.Batch.Insert.Options(),
		Delete:          a.cfg.Batch.Delete.Options(),
		DefaultLanguage: a.cfg.Import.DefaultLanguage,
	},
		importer.WithBus(a.bus),
		importer.WithMetrics(a.metrics),
		importer.WithLogger(a.logger),
	)
}

// watch draws batch progress for catalogID on stderr unless output is JSON.
// The returned func stops drawing.
func (a *app) watch(cmd *cobra.Command, flags *globalFlags, catalogID int64) func() {
	if flags.jsonOutput {
		return func() {}
	}
	return followProgress(a.bus, catalogID, cmd.ErrOrStderr())
}

// writeMetrics exports the run's metrics when a textfile is configured.
func (a *app) writeMetrics() {
	if a.cfg.Metrics.Textfile == "" {
		return
	}
	if err := batch.WriteTextfile(a.cfg.Metrics.Textfile, a.registry); err != nil {
		a.logger.Warn("write metrics textfile", "path", a.cfg.Metrics.Textfile, "error", err)
	}
}

func (a *app) Close() {
	_ = a.bus.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
