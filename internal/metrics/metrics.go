// Package metrics exposes Prometheus instrumentation for pipeline steps.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ggufconv/internal/convert"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	stepRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ggufconv",
			Subsystem: "step",
			Name:      "runs_total",
			Help:      "Total number of finished pipeline steps",
		},
		[]string{"step", "outcome"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ggufconv",
			Subsystem: "step",
			Name:      "duration_seconds",
			Help:      "Wall time of pipeline steps in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		},
		[]string{"step", "outcome"},
	)

	stepInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ggufconv",
			Subsystem: "step",
			Name:      "inflight",
			Help:      "Pipeline steps currently running",
		},
		[]string{"step"},
	)
)

func init() {
	prometheus.MustRegister(stepRunsTotal, stepDuration, stepInflight)
}

// Publisher records converter events as Prometheus metrics.
type Publisher struct{}

func (Publisher) Publish(e convert.Event) {
	var outcome string
	switch e.Name {
	case convert.EventStepStart:
		stepInflight.WithLabelValues(e.Step).Inc()
		return
	case convert.EventStepDone:
		outcome = OutcomeSuccess
	case convert.EventStepFailed:
		outcome = OutcomeFailure
	default:
		return
	}
	stepInflight.WithLabelValues(e.Step).Dec()
	stepRunsTotal.WithLabelValues(e.Step, outcome).Inc()
	if d, ok := e.Fields["duration"].(time.Duration); ok {
		stepDuration.WithLabelValues(e.Step, outcome).Observe(d.Seconds())
	}
}
