package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Ops is the store-facing half of a job.
type Ops[T, R any] interface {
	// ApplyChunk mutates all items or none. On success it returns one
	// result per item, in item order.
	ApplyChunk(ctx context.Context, items []T) ([]R, error)
	// ApplyOne mutates a single item.
	ApplyOne(ctx context.Context, item T) (R, error)
	// Describe labels an item in failure samples.
	Describe(item T) string
}

// Option configures an Executor.
type Option func(*settings)

type settings struct {
	reporter Reporter
	metrics  *Metrics
	logger   *slog.Logger
}

// WithReporter sets the progress sink.
func WithReporter(r Reporter) Option {
	return func(s *settings) { s.reporter = r }
}

// WithMetrics records job outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Executor runs jobs against one set of Ops.
type Executor[T, R any] struct {
	ops      Ops[T, R]
	reporter Reporter
	metrics  *Metrics
	logger   *slog.Logger
}

// NewExecutor creates an executor.
func NewExecutor[T, R any](ops Ops[T, R], opts ...Option) *Executor[T, R] {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return &Executor[T, R]{
		ops:      ops,
		reporter: s.reporter,
		metrics:  s.metrics,
		logger:   s.logger,
	}
}

// chunkOutcome is what one chunk produced. Each wave writes its outcomes
// into a slice indexed by chunk position; only Run merges them into the job.
type chunkOutcome[T, R any] struct {
	committed []R
	failed    []T
	failures  []Failure
	fellBack  bool
	rejected  bool  // ApplyChunk broke the one-result-per-item contract
	err       error // non-nil only for an aborted chunk
}

// Run executes job to completion. Mutation errors are recorded per item and
// never stop the run. A panic in an apply call halts the run after the
// current wave with StatusDoneFailed and an error wrapping ErrAborted. If ctx
// is canceled between waves, Run returns ctx.Err() and leaves the job
// running; rows already committed stay committed.
func (e *Executor[T, R]) Run(ctx context.Context, job *Job[T, R]) (Summary, error) {
	if job.Status != StatusIdle {
		return job.Summary(), fmt.Errorf("job %s: already %s", job.ID, job.Status)
	}

	logger := e.logger.With("job_id", job.ID, "op", job.Op)
	start := time.Now()
	chunks := Chunks(job.Items, job.ChunkSize)

	job.Status = StatusRunning
	logger.Info("batch started", "items", len(job.Items), "chunks", len(chunks),
		"chunk_size", job.ChunkSize, "concurrency", job.MaxConcurrentChunks)
	e.report(ctx, job)

	for first := 0; first < len(chunks); first += job.MaxConcurrentChunks {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch abandoned", "done", job.Succeeded+job.Failed, "total", len(job.Items), "error", err)
			return job.Summary(), err
		}

		wave := chunks[first:min(first+job.MaxConcurrentChunks, len(chunks))]
		outcomes := make([]chunkOutcome[T, R], len(wave))

		var g errgroup.Group
		for i, chunk := range wave {
			g.Go(func() error {
				return e.runChunk(ctx, chunk, &outcomes[i])
			})
		}
		aborted := g.Wait()

		for i := range outcomes {
			e.merge(job, &outcomes[i])
			if outcomes[i].fellBack {
				logger.Debug("chunk fell back to single items", "chunk", first+i,
					"failed", len(outcomes[i].failed))
			}
		}

		if aborted != nil {
			job.Status = StatusDoneFailed
			job.Err = aborted
			logger.Error("batch aborted", "done", job.Succeeded+job.Failed, "total", len(job.Items), "error", aborted)
			e.finish(ctx, job, start)
			return job.Summary(), aborted
		}

		e.report(ctx, job)
	}

	job.Status = job.finalStatus()
	logger.Info("batch finished", "status", job.Status, "succeeded", job.Succeeded,
		"failed", job.Failed, "duration", time.Since(start))
	e.finish(ctx, job, start)
	return job.Summary(), nil
}

func (e *Executor[T, R]) runChunk(ctx context.Context, chunk []T, out *chunkOutcome[T, R]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAborted, r)
			out.err = err
		}
	}()

	results, chunkErr := e.ops.ApplyChunk(ctx, chunk)
	if chunkErr == nil && len(results) != len(chunk) {
		// Which items the store applied is unknown, so none is counted a
		// success and none is retried.
		mismatch := fmt.Errorf("%w: %d results for %d items", ErrResultMismatch, len(results), len(chunk))
		e.logger.Error("chunk result mismatch", "size", len(chunk), "results", len(results))
		out.rejected = true
		for _, item := range chunk {
			out.failed = append(out.failed, item)
			out.failures = append(out.failures, Failure{
				Item:   e.ops.Describe(item),
				Reason: Reason(mismatch),
				Kind:   Classify(mismatch),
			})
		}
		return nil
	}
	if chunkErr == nil {
		out.committed = results
		return nil
	}

	e.logger.Debug("chunk failed", "size", len(chunk), "error", chunkErr)
	out.fellBack = true
	for _, item := range chunk {
		r, itemErr := e.ops.ApplyOne(ctx, item)
		if itemErr != nil {
			out.failed = append(out.failed, item)
			out.failures = append(out.failures, Failure{
				Item:   e.ops.Describe(item),
				Reason: Reason(itemErr),
				Kind:   Classify(itemErr),
			})
			continue
		}
		out.committed = append(out.committed, r)
	}
	return nil
}

func (o *chunkOutcome[T, R]) result() string {
	switch {
	case o.rejected:
		return "rejected"
	case o.fellBack:
		return "fallback"
	default:
		return "committed"
	}
}

func (e *Executor[T, R]) merge(job *Job[T, R], out *chunkOutcome[T, R]) {
	job.Succeeded += len(out.committed)
	job.Committed = append(job.Committed, out.committed...)
	job.Pending = append(job.Pending, out.failed...)
	for _, f := range out.failures {
		job.recordFailure(f)
	}
	if e.metrics != nil {
		e.metrics.observeChunk(job.Op, len(out.committed), len(out.failed), out.result())
	}
}

func (e *Executor[T, R]) finish(ctx context.Context, job *Job[T, R], start time.Time) {
	if e.metrics != nil {
		e.metrics.observeJob(job.Op, job.Status, time.Since(start))
	}
	e.report(ctx, job)
	if f, ok := e.reporter.(Finisher); ok {
		f.Finish(ctx, job.Summary())
	}
}

func (e *Executor[T, R]) report(ctx context.Context, job *Job[T, R]) {
	if e.reporter != nil {
		e.reporter.Report(ctx, job.Snapshot())
	}
}
