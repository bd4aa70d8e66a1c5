package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/spetersoncode/finsight/event"
)

// Runner is a type-erased flow, so flows over different state types can be
// dispatched by name with untyped input, for example from an HTTP handler.
type Runner interface {
	// Name returns the flow's unique identifier.
	Name() string

	// RunStream builds a state from input and streams the run.
	RunStream(ctx context.Context, input any, opts ...RunOption) <-chan event.Event
}

type runner[S any] struct {
	flow    *Flow[S]
	factory func(ctx context.Context, input any) (*S, error)
}

// NewRunner creates a Runner from a flow and a state factory. The factory
// receives the untyped input (typically map[string]any decoded from JSON)
// and returns a fresh state for the run.
func NewRunner[S any](f *Flow[S], factory func(ctx context.Context, input any) (*S, error)) Runner {
	return &runner[S]{flow: f, factory: factory}
}

// NewRunnerJSON creates a Runner that decodes input into S through JSON.
func NewRunnerJSON[S any](f *Flow[S]) Runner {
	return NewRunner(f, func(_ context.Context, input any) (*S, error) {
		return DecodeState[S](input)
	})
}

// DecodeState converts untyped input into a new *S via a JSON round trip.
// A nil input yields the zero state.
func DecodeState[S any](input any) (*S, error) {
	state := new(S)
	if input == nil {
		return state, nil
	}
	if typed, ok := input.(*S); ok {
		return typed, nil
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input to state: %w", err)
	}
	return state, nil
}

func (r *runner[S]) Name() string {
	return r.flow.Name()
}

func (r *runner[S]) RunStream(ctx context.Context, input any, opts ...RunOption) <-chan event.Event {
	state, err := r.factory(ctx, input)
	if err != nil {
		return errorStream(ctx, r.flow.Name(), err)
	}
	return r.flow.KickoffStream(ctx, state, opts...)
}

func errorStream(ctx context.Context, name string, err error) <-chan event.Event {
	ch := make(chan event.Event, 1)
	event.Emit(ctx, ch, event.Event{Type: event.RunError, Flow: name, Error: err})
	close(ch)
	return ch
}

// Registry stores Runners by name.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		runners: make(map[string]Runner),
	}
}

// Register adds a Runner, replacing any runner with the same name.
func (r *Registry) Register(runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[runner.Name()] = runner
}

// Get returns the named Runner, or nil.
func (r *Registry) Get(name string) Runner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runners[name]
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunStream streams the named flow. An unknown name yields a stream holding
// a single RunError event.
func (r *Registry) RunStream(ctx context.Context, name string, input any, opts ...RunOption) <-chan event.Event {
	runner := r.Get(name)
	if runner == nil {
		return errorStream(ctx, name, fmt.Errorf("flow not found: %s", name))
	}
	return runner.RunStream(ctx, input, opts...)
}
