package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Operation outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the data-layer collectors. Labels are kept to a fixed set:
//
//   - entity:  "author" or "post"
//   - op:      the service method (create, get, list, update, delete)
//   - outcome: one of the Outcome* constants
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rejected *prometheus.CounterVec
}

// NewMetrics builds a private registry with the data-layer collectors plus
// the standard Go runtime collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "blog",
				Name:      "operations_total",
				Help:      "Total number of data-layer operations.",
			},
			[]string{"entity", "op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "blog",
				Name:      "operation_duration_seconds",
				Help:      "Duration of data-layer operations in seconds.",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"entity", "op"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "blog",
				Name:      "validation_failures_total",
				Help:      "Writes rejected by field validation, by field.",
			},
			[]string{"entity", "field"},
		),
	}
	m.Registry.MustRegister(m.ops, m.duration, m.rejected, collectors.NewGoCollector())
	return m
}

// Observe records one finished operation.
func (m *Metrics) Observe(entity, op, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(entity, op, outcome).Inc()
	m.duration.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
}

// Rejected counts a validation failure on field.
func (m *Metrics) Rejected(entity, field string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(entity, field).Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
// The write is atomic (temp file + rename).
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
