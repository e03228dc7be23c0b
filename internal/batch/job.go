// Package batch runs chunked, concurrency-bounded store mutations with
// per-item fallback and progress reporting.
package batch

import (
	"errors"

	"github.com/google/uuid"
)

// ErrAborted marks a run halted by a panic inside an apply call.
var ErrAborted = errors.New("batch aborted")

// ErrResultMismatch marks a chunk whose ApplyChunk succeeded without
// returning exactly one result per item. Its items are counted as failed.
var ErrResultMismatch = errors.New("chunk result count mismatch")

// MaxFailureSamples bounds Job.Failures. Job.Failed stays exact.
const MaxFailureSamples = 5

// Op names the mutation a job performs.
type Op string

const (
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusRunning     Status = "running"
	StatusDoneSuccess Status = "doneSuccess"
	StatusDonePartial Status = "donePartial"
	StatusDoneFailed  Status = "doneFailed"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusDoneSuccess, StatusDonePartial, StatusDoneFailed:
		return true
	}
	return false
}

// Options sizes a job.
type Options struct {
	ChunkSize           int
	MaxConcurrentChunks int
}

// DefaultInsertOptions and DefaultDeleteOptions are used for zero fields.
var (
	DefaultInsertOptions = Options{ChunkSize: 50, MaxConcurrentChunks: 1}
	DefaultDeleteOptions = Options{ChunkSize: 100, MaxConcurrentChunks: 3}
)

// Defaults returns the default options for op.
func Defaults(op Op) Options {
	if op == OpDelete {
		return DefaultDeleteOptions
	}
	return DefaultInsertOptions
}

// Failure is one failed item, kept for display.
type Failure struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
	Kind   Kind   `json:"kind"`
}

// Job is the state of one bulk run. It is owned by the Run call that
// executes it and must not be read concurrently with that call.
type Job[T, R any] struct {
	ID                  string
	Op                  Op
	Items               []T
	ChunkSize           int
	MaxConcurrentChunks int

	Succeeded int
	Failed    int
	Failures  []Failure
	Committed []R
	Pending   []T // items whose attempt failed, in item order
	Status    Status
	Err       error
}

// NewJob creates an idle job. Non-positive option fields take the
// defaults for op.
func NewJob[T, R any](op Op, items []T, opts Options) *Job[T, R] {
	def := Defaults(op)
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.MaxConcurrentChunks <= 0 {
		opts.MaxConcurrentChunks = def.MaxConcurrentChunks
	}
	return &Job[T, R]{
		ID:                  uuid.NewString(),
		Op:                  op,
		Items:               items,
		ChunkSize:           opts.ChunkSize,
		MaxConcurrentChunks: opts.MaxConcurrentChunks,
		Status:              StatusIdle,
	}
}

// Snapshot returns the job's progress counters.
func (j *Job[T, R]) Snapshot() Snapshot {
	return Snapshot{
		JobID:     j.ID,
		Op:        j.Op,
		Current:   j.Succeeded + j.Failed,
		Total:     len(j.Items),
		Succeeded: j.Succeeded,
		Failed:    j.Failed,
		Status:    j.Status,
	}
}

// Summary returns the result shown to the operator.
func (j *Job[T, R]) Summary() Summary {
	return Summary{
		JobID:     j.ID,
		Op:        j.Op,
		Total:     len(j.Items),
		Succeeded: j.Succeeded,
		Failed:    j.Failed,
		Failures:  append([]Failure(nil), j.Failures...),
		Status:    j.Status,
	}
}

func (j *Job[T, R]) recordFailure(f Failure) {
	j.Failed++
	if len(j.Failures) >= MaxFailureSamples {
		return
	}
	for _, existing := range j.Failures {
		if existing.Reason == f.Reason {
			return
		}
	}
	j.Failures = append(j.Failures, f)
}

// finalStatus derives the terminal status from the counters.
func (j *Job[T, R]) finalStatus() Status {
	switch {
	case j.Failed == 0:
		return StatusDoneSuccess
	case j.Succeeded > 0:
		return StatusDonePartial
	default:
		return StatusDoneFailed
	}
}

// Chunks splits items into consecutive slices of at most size elements.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
