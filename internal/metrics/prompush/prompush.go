// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// Batch and CLI runs are short-lived, so metrics are pushed to a Pushgateway
// at the end of a run instead of being scraped. The "job" label becomes the
// Pushgateway grouping key; the remaining labels map onto collector labels.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"wlcheck/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	runs      *prometheus.CounterVec // wlcheck_runs_total{verdict}
	duration  *prometheus.SummaryVec // wlcheck_run_duration_seconds{verdict}
	findings  *prometheus.CounterVec // wlcheck_findings_total{severity,code}
	rows      prometheus.Counter     // wlcheck_rows_total
	recreates prometheus.Counter     // wlcheck_recreates_total
	faults    *prometheus.CounterVec // wlcheck_faults_total{stage}
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name.
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "wlcheck"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RunsTotal,
			Help: "Validated files, partitioned by verdict.",
		}, []string{"verdict"}),
		duration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.RunDuration,
			Help:       "Validation duration in seconds, partitioned by verdict.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"verdict"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.FindingsTotal,
			Help: "Validation findings, partitioned by severity and code.",
		}, []string{"severity", "code"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Data rows validated.",
		}),
		recreates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.RecreatesTotal,
			Help: "Runs whose schema diff requires deleting and recreating the watchlist.",
		}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.FaultsTotal,
			Help: "Runs that failed before a report could be produced, partitioned by stage.",
		}, []string{"stage"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"runs":      b.runs,
		"duration":  b.duration,
		"findings":  b.findings,
		"rows":      b.rows,
		"recreates": b.recreates,
		"faults":    b.faults,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.RunsTotal:
		b.runs.WithLabelValues(labels["verdict"]).Add(delta)
	case metrics.FindingsTotal:
		b.findings.WithLabelValues(labels["severity"], labels["code"]).Add(delta)
	case metrics.RowsTotal:
		b.rows.Add(delta)
	case metrics.RecreatesTotal:
		b.recreates.Add(delta)
	case metrics.FaultsTotal:
		b.faults.WithLabelValues(labels["stage"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.RunDuration {
		return
	}
	b.duration.WithLabelValues(labels["verdict"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
