package batch

import "context"

// Snapshot is the progress of a job after a wave.
type Snapshot struct {
	JobID     string `json:"job_id"`
	Op        Op     `json:"op"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Status    Status `json:"status"`
}

// Summary is the final result of a job.
type Summary struct {
	JobID     string    `json:"job_id"`
	Op        Op        `json:"op"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
	Status    Status    `json:"status"`
}

// Reporter receives progress. Report is called from the goroutine running
// the job, once when it starts, after every wave and once at the end.
type Reporter interface {
	Report(ctx context.Context, s Snapshot)
}

// Finisher is implemented by reporters that also want the final Summary.
// Finish is called once, after the terminal Report.
type Finisher interface {
	Finish(ctx context.Context, sum Summary)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, s Snapshot)

func (f ReporterFunc) Report(ctx context.Context, s Snapshot) { f(ctx, s) }

// MultiReporter fans progress out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(ctx context.Context, s Snapshot) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, s)
		}
	}
}

func (m MultiReporter) Finish(ctx context.Context, sum Summary) {
	for _, r := range m {
		if f, ok := r.(Finisher); ok {
			f.Finish(ctx, sum)
		}
	}
}
