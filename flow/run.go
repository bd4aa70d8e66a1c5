package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/spetersoncode/finsight/event"
)

// Run is the record of one kickoff.
type Run struct {
	// ID uniquely identifies the run.
	ID string

	// Flow is the flow name.
	Flow string

	// Output is the payload of the last step or steps reached.
	Output Payload

	// Results holds the result of every executed step.
	Results map[string]Result

	// Order lists executed steps in execution order.
	Order []string

	// Skipped lists steps not executed because a step they depend on failed.
	Skipped []string

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Failed reports whether any executed step produced a failure result.
func (r *Run) Failed() bool {
	for _, res := range r.Results {
		if res.Failed {
			return true
		}
	}
	return false
}

// Err returns the first error caught from a step, in execution order,
// wrapped in a StepError. Failures returned explicitly by a step carry no
// error.
func (r *Run) Err() error {
	for _, name := range r.Order {
		if res := r.Results[name]; res.Err != nil {
			return &StepError{Flow: r.Flow, Step: name, Err: res.Err}
		}
	}
	return nil
}

// Kickoff validates the graph and executes every step against state. The
// returned error is non-nil only for an invalid graph or a nil state; step
// failures are reported through the Run.
func (f *Flow[S]) Kickoff(ctx context.Context, state *S, opts ...RunOption) (*Run, error) {
	return f.execute(ctx, state, nil, opts...)
}

func (f *Flow[S]) execute(ctx context.Context, state *S, ch chan<- event.Event, opts ...RunOption) (*Run, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	emit := func(e event.Event) {
		if ch == nil {
			return
		}
		e.RunID = cfg.runID
		e.Flow = f.name
		event.Emit(ctx, ch, e)
	}

	ordered, err := f.order()
	if err == nil && state == nil {
		err = ErrNilState
	}
	if err != nil {
		f.opts.Logger.Error("flow kickoff rejected", "flow", f.name, "error", err)
		emit(event.Event{Type: event.RunError, Error: err})
		return nil, err
	}

	logger := f.opts.Logger.With("flow", f.name, "run_id", cfg.runID)
	start := time.Now()

	ctx, span := f.opts.Tracer.Start(ctx, "flow."+f.name,
		trace.WithAttributes(
			attribute.String("flow.name", f.name),
			attribute.String("flow.run_id", cfg.runID),
			attribute.Int("flow.step_count", len(ordered)),
		),
	)
	defer span.End()

	emit(event.Event{Type: event.RunStart})
	logger.Debug("flow started")

	run := &Run{
		ID:      cfg.runID,
		Flow:    f.name,
		Results: make(map[string]Result, len(ordered)),
	}

	// blockedBy maps a skipped step to the failed step upstream of it.
	blockedBy := make(map[string]string)
	for _, s := range ordered {
		if cause := f.blockingFailure(s, run, blockedBy); cause != "" {
			blockedBy[s.name] = cause
			run.Skipped = append(run.Skipped, s.name)
			emit(event.Event{
				Type:     event.StepSkipped,
				StepName: s.name,
				Message:  fmt.Sprintf("skipped after step %q failed", cause),
			})
			f.opts.Metrics.observeStep(f.name, s.name, outcomeSkipped, 0)
			continue
		}

		emit(event.Event{Type: event.StepStart, StepName: s.name})
		res, elapsed := f.runStep(ctx, s, state, logger)
		run.Results[s.name] = res
		run.Order = append(run.Order, s.name)
		emit(event.Event{
			Type:     event.StepEnd,
			StepName: s.name,
			Payload:  res.Payload,
			Failed:   res.Failed,
			Error:    res.Err,
		})

		outcome := outcomeSuccess
		if res.Failed {
			outcome = outcomeFailure
		}
		f.opts.Metrics.observeStep(f.name, s.name, outcome, elapsed)
	}

	if len(run.Skipped) > 0 {
		logger.Warn("flow halted", "skipped", run.Skipped)
	}
	run.Output = f.mergeOutput(run)
	run.Duration = time.Since(start)

	outcome := outcomeSuccess
	if run.Failed() {
		outcome = outcomeFailure
		span.SetStatus(codes.Error, "step failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	f.opts.Metrics.observeRun(f.name, outcome, run.Duration)

	logger.Debug("flow finished", "steps", len(run.Order), "duration", run.Duration)
	if ch != nil && len(run.Output) > 0 {
		emitOutput(run.Output, emit, logger)
	}
	emit(event.Event{Type: event.RunEnd, Payload: run.Output, Failed: run.Failed()})
	return run, nil
}

// emitOutput streams the run output as one JSON message.
func emitOutput(out Payload, emit func(event.Event), logger *slog.Logger) {
	data, err := json.Marshal(out)
	if err != nil {
		logger.Warn("failed to encode run output", "error", err)
		return
	}
	id := uuid.NewString()
	emit(event.Event{Type: event.MessageStart, MessageID: id})
	emit(event.Event{Type: event.MessageDelta, MessageID: id, Delta: string(data)})
	emit(event.Event{Type: event.MessageEnd, MessageID: id})
}

func (f *Flow[S]) runStep(ctx context.Context, s *step[S], state *S, logger *slog.Logger) (Result, time.Duration) {
	ctx, span := f.opts.Tracer.Start(ctx, s.name,
		trace.WithAttributes(
			attribute.String("flow.step", s.name),
			attribute.StringSlice("flow.after", s.after),
		),
	)
	defer span.End()

	timeout := f.opts.StepTimeout
	if s.timeout > 0 {
		timeout = s.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body := s.fn
	guarded := Guard(s.name, func(ctx context.Context, state *S) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return body(ctx, state)
	}, s.def, logger)

	start := time.Now()
	res, _ := guarded(ctx, state)
	elapsed := time.Since(start)

	if res.Failed {
		msg := "failure result"
		if res.Err != nil {
			span.RecordError(res.Err)
			msg = res.Err.Error()
		}
		span.SetStatus(codes.Error, msg)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return res, elapsed
}

// blockingFailure returns the failed step that s transitively depends on,
// or "" when s may run. ContinueOnError never blocks.
func (f *Flow[S]) blockingFailure(s *step[S], run *Run, blockedBy map[string]string) string {
	if f.opts.ContinueOnError {
		return ""
	}
	for _, p := range s.after {
		if cause, ok := blockedBy[p]; ok {
			return cause
		}
		if run.Results[p].Failed {
			return p
		}
	}
	return ""
}

// mergeOutput builds the run output from the executed steps that no other
// executed step follows. Without failures these are the leaves. Payloads are
// merged in execution order with failed ones applied last, so a failure flag
// is never hidden by a sibling branch.
func (f *Flow[S]) mergeOutput(run *Run) Payload {
	followed := make(map[string]bool, len(run.Order))
	for _, s := range f.steps {
		if _, ran := run.Results[s.name]; !ran {
			continue
		}
		for _, p := range s.after {
			followed[p] = true
		}
	}

	var ok, failed []Payload
	for _, name := range run.Order {
		if followed[name] {
			continue
		}
		res := run.Results[name]
		if res.Failed {
			failed = append(failed, res.Payload)
		} else {
			ok = append(ok, res.Payload)
		}
	}

	out := Payload{}
	for _, p := range append(ok, failed...) {
		maps.Copy(out, p)
	}
	return out
}
