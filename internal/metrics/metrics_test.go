package metrics

import (
	"testing"
	"time"
)

// A nil Metrics must be a safe no-op so tests and tools can skip
// registration entirely.
func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveUpload(1024)
	m.IncImportJobs()
	m.AddCommitted(5)
	m.AddRejected(2)
	m.ObserveChunk(50 * time.Millisecond)
}
