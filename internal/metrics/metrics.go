// Package metrics exposes Prometheus instrumentation for the import
// pipeline. All methods are nil-safe so tests can pass a nil *Metrics
// without registering collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UploadsTotal    prometheus.Counter
	UploadBytes     prometheus.Histogram
	ImportJobsTotal prometheus.Counter
	RowsCommitted   prometheus.Counter
	RowsRejected    prometheus.Counter
	ChunkDuration   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		UploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_uploads_total",
			Help: "Total number of upload requests that parsed successfully",
		}),
		UploadBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_upload_bytes",
			Help:    "Size distribution of uploaded files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		ImportJobsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_import_jobs_total",
			Help: "Total number of import jobs created",
		}),
		RowsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_rows_committed_total",
			Help: "Total number of rows committed to the case store",
		}),
		RowsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_rows_rejected_total",
			Help: "Total number of rows rejected during batch commit",
		}),
		ChunkDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_commit_chunk_duration_seconds",
			Help:    "Wall time spent committing one chunk of rows",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveUpload(bytes int) {
	if m == nil {
		return
	}
	m.UploadsTotal.Inc()
	m.UploadBytes.Observe(float64(bytes))
}

func (m *Metrics) IncImportJobs() {
	if m == nil {
		return
	}
	m.ImportJobsTotal.Inc()
}

func (m *Metrics) AddCommitted(n int) {
	if m == nil {
		return
	}
	m.RowsCommitted.Add(float64(n))
}

func (m *Metrics) AddRejected(n int) {
	if m == nil {
		return
	}
	m.RowsRejected.Add(float64(n))
}

func (m *Metrics) ObserveChunk(d time.Duration) {
	if m == nil {
		return
	}
	m.ChunkDuration.Observe(d.Seconds())
}
