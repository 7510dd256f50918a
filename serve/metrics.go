// Package serve runs the continuous checking service: a watch loop
// that re-lints changed files, Prometheus metrics, a health endpoint,
// and optional NATS publishing of report summaries.
package serve

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semlint/lint"
)

// Metrics holds the collectors the service exposes on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	filesChecked  prometheus.Counter
	parseFailures prometheus.Counter
	findings      *prometheus.CounterVec
	runDuration   prometheus.Histogram
	openFindings  prometheus.Gauge
}

// NewMetrics creates the service collectors on a private registry, so
// tests and embedded use stay isolated from the global default.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semlint",
			Name:      "files_checked_total",
			Help:      "Files parsed and evaluated.",
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semlint",
			Name:      "parse_failures_total",
			Help:      "Files that could not be parsed.",
		}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semlint",
			Name:      "findings_total",
			Help:      "Findings reported, by rule and severity.",
		}, []string{"rule", "severity"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "semlint",
			Name:      "run_duration_seconds",
			Help:      "Duration of full check runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		openFindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semlint",
			Name:      "open_findings",
			Help:      "Findings in the current aggregate report.",
		}),
	}
	m.registry.MustRegister(
		m.filesChecked,
		m.parseFailures,
		m.findings,
		m.runDuration,
		m.openFindings,
	)
	return m
}

// Registry exposes the underlying registry for the HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records a completed full run.
func (m *Metrics) ObserveRun(report *lint.Report) {
	m.filesChecked.Add(float64(report.FilesScanned))
	m.parseFailures.Add(float64(report.FilesFailed))
	m.ObserveFindings(report.Findings)
	m.runDuration.Observe(float64(report.DurationMS) / 1000.0)
	m.openFindings.Set(float64(report.Total()))
}

// ObserveFile records one re-checked file.
func (m *Metrics) ObserveFile(findings []lint.Finding, parseFailed bool) {
	if parseFailed {
		m.parseFailures.Inc()
	} else {
		m.filesChecked.Inc()
	}
	m.ObserveFindings(findings)
}

// ObserveFindings counts findings by rule and severity.
func (m *Metrics) ObserveFindings(findings []lint.Finding) {
	for _, f := range findings {
		m.findings.WithLabelValues(f.RuleID, string(f.Severity)).Inc()
	}
}

// SetOpenFindings updates the aggregate gauge.
func (m *Metrics) SetOpenFindings(n int) {
	m.openFindings.Set(float64(n))
}
