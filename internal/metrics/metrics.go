// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from validation runs.
//
// A global, pluggable backend defaults to a no-op implementation, so metrics
// are always safe to call even when no real backend is configured. Concrete
// systems (Prometheus Pushgateway, Datadog) live in subpackages. Backends
// must be safe for concurrent use; batch workers record in parallel.
package metrics

import (
	"time"

	"wlcheck/internal/report"
)

// Metric names shared by every backend.
const (
	RunsTotal      = "wlcheck_runs_total"
	RunDuration    = "wlcheck_run_duration_seconds"
	FindingsTotal  = "wlcheck_findings_total"
	RowsTotal      = "wlcheck_rows_total"
	RecreatesTotal = "wlcheck_recreates_total"
	FaultsTotal    = "wlcheck_faults_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing
// backend. Call it once at startup, before any run is recorded.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordRun counts one validated file and its duration, labeled by verdict.
func RecordRun(job string, verdict report.Verdict, d time.Duration) {
	lbls := Labels{"job": job, "verdict": string(verdict)}
	backend.IncCounter(RunsTotal, 1, lbls)
	backend.ObserveHistogram(RunDuration, d.Seconds(), lbls)
}

// RecordFindings counts the findings of r by severity and code, the data
// rows it covered and whether it asks for a recreate.
func RecordFindings(job string, r report.Report) {
	for _, f := range r.Findings() {
		backend.IncCounter(FindingsTotal, 1, Labels{
			"job":      job,
			"severity": string(f.Severity),
			"code":     string(f.Code),
		})
	}
	if n := r.Statistics.TotalRows; n > 0 {
		backend.IncCounter(RowsTotal, float64(n), Labels{"job": job})
	}
	if r.SchemaDiff.RequiresRecreate {
		backend.IncCounter(RecreatesTotal, 1, Labels{"job": job})
	}
}

// RecordFault counts a run that could not produce a report (unreadable
// input, snapshot lookup failure).
func RecordFault(job, stage string) {
	backend.IncCounter(FaultsTotal, 1, Labels{"job": job, "stage": stage})
}
