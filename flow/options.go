package flow

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Options contains flow-wide configuration.
type Options struct {
	// Logger receives step failure and run logs. Defaults to slog.Default().
	Logger *slog.Logger

	// StepTimeout bounds each step's context (0 = no deadline).
	StepTimeout time.Duration

	// ContinueOnError runs every step even after one fails.
	ContinueOnError bool

	// Metrics records run and step outcomes when set.
	Metrics *Metrics

	// Tracer creates spans per run and per step. Defaults to the global
	// OpenTelemetry tracer.
	Tracer trace.Tracer
}

// Option is a functional option for flow configuration.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// StepTimeout sets a default deadline for every step.
func StepTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.StepTimeout = d
	}
}

// ContinueOnError makes the flow run every step regardless of failures.
func ContinueOnError() Option {
	return func(o *Options) {
		o.ContinueOnError = true
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithTracer sets the tracer used for run and step spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		o.Tracer = t
	}
}

// StepOption configures a single step.
type StepOption func(*stepConfig)

type stepConfig struct {
	after   []string
	def     Payload
	timeout time.Duration
}

// After declares the steps that must complete before this one.
func After(steps ...string) StepOption {
	return func(c *stepConfig) {
		c.after = append(c.after, steps...)
	}
}

// WithDefault sets the failure payload used when the step errors or panics.
func WithDefault(p Payload) StepOption {
	return func(c *stepConfig) {
		c.def = p
	}
}

// WithTimeout overrides the flow-wide step timeout for this step.
func WithTimeout(d time.Duration) StepOption {
	return func(c *stepConfig) {
		c.timeout = d
	}
}

// RunOption configures a single kickoff.
type RunOption func(*runConfig)

type runConfig struct {
	runID string
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}
