// Package event provides the streaming event type emitted by flow runs. The
// event types map 1:1 onto the AG-UI protocol.
package event

import (
	"context"
	"time"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a flow run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a flow run completes. Payload holds the run output.
	RunEnd Type = "run_end"

	// RunError fires when a run cannot start or is aborted.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires when a step begins.
	StepStart Type = "step_start"

	// StepEnd fires when a step returns, successfully or not.
	StepEnd Type = "step_end"

	// StepSkipped fires for steps not executed after an earlier failure.
	StepSkipped Type = "step_skipped"
)

// Message lifecycle events. A streamed run sends its output as one message
// just before RunEnd.
const (
	MessageStart Type = "message_start"
	MessageDelta Type = "message_delta"
	MessageEnd   Type = "message_end"
)

// Event represents an observable occurrence during a streaming run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID identifies the run that produced the event.
	RunID string

	// Flow is the name of the flow being run.
	Flow string

	// StepName identifies the step for step events.
	StepName string

	// Payload is the step result for StepEnd and the run output for RunEnd.
	Payload map[string]any

	// Failed is set on StepEnd when the step produced a failure result.
	Failed bool

	// MessageID correlates MessageStart/Delta/End.
	MessageID string

	// Delta contains content for MessageDelta events: the run output as
	// JSON.
	Delta string

	// Error contains the error for RunError events and failed steps.
	Error error

	// Message contains additional context, such as a skip reason.
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit stamps e and sends it to ch, giving up when ctx is done.
func Emit(ctx context.Context, ch chan<- Event, e Event) {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
