package events

import (
	"context"

	"github.com/vmunix/embedarr/internal/batch"
)

// Reporter publishes batch progress for one catalog entry on a Bus.
type Reporter struct {
	bus       *Bus
	catalogID int64
}

// NewReporter creates a reporter for jobs touching catalogID.
func NewReporter(bus *Bus, catalogID int64) *Reporter {
	return &Reporter{bus: bus, catalogID: catalogID}
}

var (
	_ batch.Reporter = (*Reporter)(nil)
	_ batch.Finisher = (*Reporter)(nil)
)

// Report publishes BatchStarted for the first snapshot and BatchProgressed
// for the following ones. Terminal snapshots are left to Finish.
func (r *Reporter) Report(ctx context.Context, s batch.Snapshot) {
	switch {
	case s.Status.Terminal():
		return
	case s.Current == 0 && s.Status == batch.StatusRunning:
		_ = r.bus.Publish(ctx, &BatchStarted{
			BaseEvent: NewBaseEvent(EventBatchStarted, EntityCatalog, r.catalogID),
			JobID:     s.JobID,
			Op:        s.Op,
			Total:     s.Total,
		})
	default:
		_ = r.bus.Publish(ctx, &BatchProgressed{
			BaseEvent: NewBaseEvent(EventBatchProgressed, EntityCatalog, r.catalogID),
			JobID:     s.JobID,
			Current:   s.Current,
			Total:     s.Total,
			Failed:    s.Failed,
		})
	}
}

// Finish publishes BatchCompleted.
func (r *Reporter) Finish(ctx context.Context, sum batch.Summary) {
	_ = r.bus.Publish(ctx, &BatchCompleted{
		BaseEvent: NewBaseEvent(EventBatchCompleted, EntityCatalog, r.catalogID),
		JobID:     sum.JobID,
		Op:        sum.Op,
		Status:    sum.Status,
		Succeeded: sum.Succeeded,
		Failed:    sum.Failed,
		Failures:  sum.Failures,
	})
}
