package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records counters for CSV price import runs.
type ImportMetrics struct {
	rows     *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewImportMetrics registers the import metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Processed CSV rows by import kind and outcome.",
	}, []string{"kind", "outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_runs_total",
		Help: "Completed import runs by kind and result.",
	}, []string{"kind", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of import runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(rows, runs, duration)
	return &ImportMetrics{
		rows:     rows,
		runs:     runs,
		duration: duration,
	}
}

// IncRow increments the per-row counter for the named outcome.
func (m *ImportMetrics) IncRow(kind, outcome string) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncRun increments the per-run counter with a success/failure result.
func (m *ImportMetrics) IncRun(kind string, success bool) {
	if m == nil || m.runs == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.runs.WithLabelValues(normalizeLabel(kind), result).Inc()
}

// ObserveDuration records the duration of an import run.
func (m *ImportMetrics) ObserveDuration(kind string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
