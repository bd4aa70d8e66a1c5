package flow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeSkipped = "skipped"
)

// Metrics holds the Prometheus collectors shared by all flows.
type Metrics struct {
	runs         *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics creates the flow collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: flow, outcome (success, failure)
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finsight",
			Subsystem: "flow",
			Name:      "runs_total",
			Help:      "Total flow runs by outcome",
		}, []string{"flow", "outcome"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finsight",
			Subsystem: "flow",
			Name:      "run_duration_seconds",
			Help:      "Flow run latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"flow"}),

		// Labels: flow, step, outcome (success, failure, skipped)
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finsight",
			Subsystem: "flow",
			Name:      "steps_total",
			Help:      "Total step executions by outcome",
		}, []string{"flow", "step", "outcome"}),

		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finsight",
			Subsystem: "flow",
			Name:      "step_duration_seconds",
			Help:      "Step latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"flow", "step"}),
	}
}

func (m *Metrics) observeRun(flow, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(flow, outcome).Inc()
	m.runDuration.WithLabelValues(flow).Observe(d.Seconds())
}

func (m *Metrics) observeStep(flow, step, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(flow, step, outcome).Inc()
	if outcome != outcomeSkipped {
		m.stepDuration.WithLabelValues(flow, step).Observe(d.Seconds())
	}
}
