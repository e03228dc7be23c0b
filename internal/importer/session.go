// Package importer runs bulk source imports and deletions for one catalog
// entry and keeps an in-memory view of its sources in step with the store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vmunix/embedarr/internal/batch"
	"github.com/vmunix/embedarr/internal/events"
	"github.com/vmunix/embedarr/internal/ingest"
	"github.com/vmunix/embedarr/internal/library"
	"github.com/vmunix/embedarr/pkg/sources"
)

// Config for a session.
type Config struct {
	Insert          batch.Options
	Delete          batch.Options
	DefaultLanguage string
}

// Option configures a Session.
type Option func(*Session)

// WithBus publishes batch events on bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithMetrics records batch metrics in m.
func WithMetrics(m *batch.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithReporter adds a progress sink, such as a terminal progress bar.
func WithReporter(r batch.Reporter) Option {
	return func(s *Session) { s.reporter = r }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is the operator's working set for one catalog entry. Only one
// batch job runs at a time.
type Session struct {
	repo      library.Repository
	catalogID int64
	cfg       Config
	bus       *events.Bus
	metrics   *batch.Metrics
	reporter  batch.Reporter
	logger    *slog.Logger

	mu        sync.Mutex
	running   bool
	sources   []library.Source
	selection map[string]struct{}
}

// NewSession creates a session for catalogID.
func NewSession(repo library.Repository, catalogID int64, cfg Config, opts ...Option) *Session {
	s := &Session{
		repo:      repo,
		catalogID: catalogID,
		cfg:       cfg,
		selection: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("catalog_id", catalogID)
	return s
}

// CatalogID returns the catalog entry the session works on.
func (s *Session) CatalogID() int64 { return s.catalogID }

// Load replaces the in-memory collection with the stored sources.
func (s *Session) Load(ctx context.Context) error {
	list, err := s.repo.List(ctx, library.Filter{CatalogID: &s.catalogID})
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = list
	return nil
}

// Sources returns a copy of the in-memory collection.
func (s *Session) Sources() []library.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sources)
}

// Select adds ids to the delete selection.
func (s *Session) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.selection[id] = struct{}{}
	}
}

// SelectAll selects every source in the collection.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		s.selection[src.ID] = struct{}{}
	}
}

// Selection returns the selected ids in collection order, followed by any
// selected ids not in the collection.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.selection))
	seen := make(map[string]bool, len(s.selection))
	for _, src := range s.sources {
		if _, ok := s.selection[src.ID]; ok {
			ids = append(ids, src.ID)
			seen[src.ID] = true
		}
	}
	var rest []string
	for id := range s.selection {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(ids, rest...)
}

// Busy reports whether a job is running. A UI should keep its progress
// view open while Busy is true.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrJobRunning
	}
	s.running = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

func (s *Session) executorOptions() []batch.Option {
	reporters := batch.MultiReporter{}
	if s.bus != nil {
		reporters = append(reporters, events.NewReporter(s.bus, s.catalogID))
	}
	if s.reporter != nil {
		reporters = append(reporters, s.reporter)
	}
	opts := []batch.Option{batch.WithLogger(s.logger), batch.WithReporter(reporters)}
	if s.metrics != nil {
		opts = append(opts, batch.WithMetrics(s.metrics))
	}
	return opts
}

// ImportResult is the outcome of Import or AddOne.
type ImportResult struct {
	Parse   sources.Result   `json:"parse"`
	Payload ingest.Payload   `json:"payload"`
	Summary batch.Summary    `json:"summary"`
	Pending []library.Source `json:"pending,omitempty"`
}

// Prepare validates meta and builds the records for text without touching
// the store.
func (s *Session) Prepare(text string, meta ingest.Meta) (sources.Result, ingest.Payload, error) {
	meta, err := s.validate(meta)
	if err != nil {
		return sources.Result{}, ingest.Payload{}, err
	}
	return ingest.FromText(text, meta)
}

func (s *Session) validate(meta ingest.Meta) (ingest.Meta, error) {
	if meta.CatalogID == 0 {
		meta.CatalogID = s.catalogID
	}
	meta.Title = SanitizeTitle(meta.Title)
	meta, err := meta.Validate(s.cfg.DefaultLanguage)
	if err != nil {
		return meta, err
	}
	if meta.CatalogID != s.catalogID {
		return meta, &ingest.ValidationError{Errors: []string{
			fmt.Sprintf("catalog_id: session is bound to %d, got %d", s.catalogID, meta.CatalogID),
		}}
	}
	return meta, nil
}

// Import parses text, builds records and inserts them. Validation and
// empty-paste errors are returned before any job starts. Inserted sources
// are added to the collection; failed ones are returned as Pending.
func (s *Session) Import(ctx context.Context, text string, meta ingest.Meta) (ImportResult, error) {
	res, payload, err := s.Prepare(text, meta)
	if err != nil {
		return ImportResult{Parse: res, Payload: payload}, err
	}
	s.logger.Info("import prepared", "strategy", res.Strategy, "arrays", len(res.Arrays),
		"records", len(payload.Records), "skipped", len(res.Skipped)+len(payload.Skipped))

	out, err := s.Insert(ctx, payload.Records)
	out.Parse = res
	out.Payload = payload
	return out, err
}

// AddOne inserts a single source, as a batch of one.
func (s *Session) AddOne(ctx context.Context, meta ingest.Meta, url string, episode int) (ImportResult, error) {
	meta, err := s.validate(meta)
	verr, _ := err.(*ingest.ValidationError)
	if err != nil && verr == nil {
		return ImportResult{}, err
	}
	if verr == nil {
		verr = &ingest.ValidationError{}
	}
	url = strings.TrimSpace(url)
	if !sources.IsValidURL(url) {
		verr.Errors = append(verr.Errors, fmt.Sprintf("url: not an absolute URL: %q", url))
	}
	if episode < 1 {
		verr.Errors = append(verr.Errors, fmt.Sprintf("episode: must be >= 1, got %d", episode))
	}
	if len(verr.Errors) > 0 {
		return ImportResult{}, verr
	}

	kind, _ := ingest.ParseMediaKind(meta.Kind)
	src := library.Source{
		Label:     ingest.Label(meta.Title, sources.DetectProvider(url), meta.Season, episode),
		URL:       url,
		MediaKind: kind,
		Language:  meta.Language,
		Enabled:   true,
		CatalogID: meta.CatalogID,
		Season:    meta.Season,
		Episode:   episode,
	}
	out, err := s.runInsert(ctx, []library.Source{src}, batch.Options{ChunkSize: 1, MaxConcurrentChunks: 1})
	out.Payload = ingest.Payload{Records: []library.Source{src}}
	return out, err
}

// Insert runs an insert job for already-built records. Use it to retry the
// Pending records of an earlier run.
func (s *Session) Insert(ctx context.Context, records []library.Source) (ImportResult, error) {
	return s.runInsert(ctx, records, s.cfg.Insert)
}

func (s *Session) runInsert(ctx context.Context, records []library.Source, opts batch.Options) (ImportResult, error) {
	if len(records) == 0 {
		return ImportResult{}, ingest.ErrNoURLs
	}
	if err := s.acquire(); err != nil {
		return ImportResult{}, err
	}
	defer s.release()

	job := batch.NewJob[library.Source, library.Source](batch.OpInsert, records, opts)
	exec := batch.NewExecutor[library.Source, library.Source](batch.InsertOps{Repo: s.repo}, s.executorOptions()...)
	sum, err := exec.Run(ctx, job)

	s.mu.Lock()
	s.sources = append(s.sources, job.Committed...)
	s.mu.Unlock()

	return ImportResult{Summary: sum, Pending: job.Pending}, err
}

// DeleteResult is the outcome of Delete.
type DeleteResult struct {
	Summary batch.Summary `json:"summary"`
	Deleted []string      `json:"deleted"`
	Pending []string      `json:"pending,omitempty"`
}

// Delete removes the given sources, or the current selection when ids is
// empty. Malformed ids reject the whole request before any store call.
// Deleted sources leave the collection and the selection; failed ones stay
// in both so the operator can retry.
func (s *Session) Delete(ctx context.Context, ids []string) (DeleteResult, error) {
	if len(ids) == 0 {
		ids = s.Selection()
	}
	if len(ids) == 0 {
		return DeleteResult{}, ErrNothingSelected
	}

	verr := &ingest.ValidationError{}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			verr.Errors = append(verr.Errors, fmt.Sprintf("id %q: not a UUID", id))
		}
	}
	if len(verr.Errors) > 0 {
		return DeleteResult{}, verr
	}

	if err := s.acquire(); err != nil {
		return DeleteResult{}, err
	}
	defer s.release()

	job := batch.NewJob[string, string](batch.OpDelete, ids, s.cfg.Delete)
	exec := batch.NewExecutor[string, string](batch.DeleteOps{Repo: s.repo}, s.executorOptions()...)
	sum, err := exec.Run(ctx, job)

	deleted := make(map[string]bool, len(job.Committed))
	for _, id := range job.Committed {
		deleted[id] = true
	}
	s.mu.Lock()
	s.sources = slices.DeleteFunc(s.sources, func(src library.Source) bool { return deleted[src.ID] })
	for id := range deleted {
		delete(s.selection, id)
	}
	s.mu.Unlock()

	return DeleteResult{Summary: sum, Deleted: job.Committed, Pending: job.Pending}, err
}
