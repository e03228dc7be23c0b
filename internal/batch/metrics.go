package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the batch counters. Create one per registry.
type Metrics struct {
	items    *prometheus.CounterVec
	chunks   *prometheus.CounterVec
	jobs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the batch metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		items: f.NewCounterVec(prometheus.CounterOpts{
			Name: "embedarr_batch_items_total",
			Help: "Items processed by batch jobs, by outcome.",
		}, []string{"op", "outcome"}),
		chunks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "embedarr_batch_chunks_total",
			Help: "Chunks processed by batch jobs. result=fallback means the chunk call failed and items were retried one by one; result=rejected means it returned the wrong number of results.",
		}, []string{"op", "result"}),
		jobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "embedarr_batch_jobs_total",
			Help: "Batch jobs by terminal status.",
		}, []string{"op", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "embedarr_batch_job_duration_seconds",
			Help:    "Wall time of batch jobs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) observeChunk(op Op, succeeded, failed int, result string) {
	m.items.WithLabelValues(string(op), "success").Add(float64(succeeded))
	m.items.WithLabelValues(string(op), "failure").Add(float64(failed))
	m.chunks.WithLabelValues(string(op), result).Inc()
}

func (m *Metrics) observeJob(op Op, status Status, d time.Duration) {
	m.jobs.WithLabelValues(string(op), string(status)).Inc()
	m.duration.WithLabelValues(string(op)).Observe(d.Seconds())
}

// WriteTextfile writes everything in g to path in the node_exporter
// textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
