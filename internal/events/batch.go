// internal/events/batch.go
package events

import "github.com/vmunix/embedarr/internal/batch"

// Entity types
const (
	EntityCatalog = "catalog"
)

// Event type constants
const (
	EventBatchStarted    = "batch.started"
	EventBatchProgressed = "batch.progressed"
	EventBatchCompleted  = "batch.completed"
)

// BatchStarted is emitted when a bulk job begins.
type BatchStarted struct {
	BaseEvent
	JobID string   `json:"job_id"`
	Op    batch.Op `json:"op"`
	Total int      `json:"total"`
}

// BatchProgressed is emitted after every wave of chunks.
type BatchProgressed struct {
	BaseEvent
	JobID   string `json:"job_id"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Failed  int    `json:"failed"`
}

// Percent returns progress as 0-100.
func (e *BatchProgressed) Percent() float64 {
	if e.Total == 0 {
		return 100
	}
	return float64(e.Current) * 100 / float64(e.Total)
}

// BatchCompleted is emitted when a job reaches a terminal status.
type BatchCompleted struct {
	BaseEvent
	JobID     string          `json:"job_id"`
	Op        batch.Op        `json:"op"`
	Status    batch.Status    `json:"status"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []batch.Failure `json:"failures,omitempty"`
}

// Partial reports whether some but not all items succeeded.
func (e *BatchCompleted) Partial() bool {
	return e.Status == batch.StatusDonePartial
}
