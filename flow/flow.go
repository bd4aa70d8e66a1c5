package flow

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/spetersoncode/finsight/flow"

type step[S any] struct {
	name    string
	fn      StepFunc[S]
	after   []string
	def     Payload
	timeout time.Duration
}

// Flow is a named graph of steps over state type S. Register all steps
// before the first Kickoff; after that a Flow is read-only and safe for
// concurrent kickoffs, each with its own state.
type Flow[S any] struct {
	name  string
	opts  Options
	steps []*step[S]
	index map[string]int
	dups  []string
}

// New creates an empty flow.
func New[S any](name string, opts ...Option) *Flow[S] {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	return &Flow[S]{
		name:  name,
		opts:  o,
		index: make(map[string]int),
	}
}

// Name returns the flow name.
func (f *Flow[S]) Name() string { return f.name }

// Step registers a step. Registration problems such as duplicate names are
// reported by Validate.
func (f *Flow[S]) Step(name string, fn StepFunc[S], opts ...StepOption) *Flow[S] {
	var cfg stepConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, ok := f.index[name]; ok {
		f.dups = append(f.dups, name)
		return f
	}

	var after []string
	for _, p := range cfg.after {
		if !slices.Contains(after, p) {
			after = append(after, p)
		}
	}

	f.index[name] = len(f.steps)
	f.steps = append(f.steps, &step[S]{
		name:    name,
		fn:      fn,
		after:   after,
		def:     cfg.def,
		timeout: cfg.timeout,
	})
	return f
}

// Steps returns the step names in registration order.
func (f *Flow[S]) Steps() []string {
	names := make([]string, len(f.steps))
	for i, s := range f.steps {
		names[i] = s.name
	}
	return names
}

// Validate checks that the graph has exactly one start step, unique names,
// only registered predecessors and no cycles.
func (f *Flow[S]) Validate() error {
	_, err := f.order()
	return err
}

// order returns the steps in execution order.
func (f *Flow[S]) order() ([]*step[S], error) {
	var problems []string
	for _, d := range f.dups {
		problems = append(problems, fmt.Sprintf("duplicate step %q", d))
	}

	if len(f.steps) == 0 {
		problems = append(problems, "no steps registered")
	}

	var starts []string
	for _, s := range f.steps {
		if s.fn == nil {
			problems = append(problems, fmt.Sprintf("step %q has no function", s.name))
		}
		if len(s.after) == 0 {
			starts = append(starts, s.name)
		}
		for _, p := range s.after {
			if _, ok := f.index[p]; !ok {
				problems = append(problems, fmt.Sprintf("step %q depends on unknown step %q", s.name, p))
			}
		}
	}
	if len(f.steps) > 0 && len(starts) != 1 {
		problems = append(problems, fmt.Sprintf("expected exactly one start step, found %d %v", len(starts), starts))
	}

	if len(problems) > 0 {
		return nil, &GraphError{Flow: f.name, Problems: problems}
	}

	// Kahn's algorithm; picking the lowest registration index among ready
	// steps keeps the order deterministic.
	indegree := make([]int, len(f.steps))
	successors := make([][]int, len(f.steps))
	for i, s := range f.steps {
		indegree[i] = len(s.after)
		for _, p := range s.after {
			j := f.index[p]
			successors[j] = append(successors[j], i)
		}
	}

	var ready []int
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]*step[S], 0, len(f.steps))
	for len(ready) > 0 {
		slices.Sort(ready)
		i := ready[0]
		ready = ready[1:]
		ordered = append(ordered, f.steps[i])
		for _, j := range successors[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}

	if len(ordered) != len(f.steps) {
		var cyclic []string
		for i, d := range indegree {
			if d > 0 {
				cyclic = append(cyclic, f.steps[i].name)
			}
		}
		return nil, &GraphError{
			Flow:     f.name,
			Problems: []string{fmt.Sprintf("cycle among steps %v", cyclic)},
		}
	}
	return ordered, nil
}
