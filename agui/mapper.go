package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/finsight/event"
)

// RoleAssistant is the AG-UI role of messages produced by a run.
const RoleAssistant = "assistant"

// Mapper converts flow events to AG-UI events.
//
// Create a new Mapper for each run using NewMapper.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a new Mapper for a single run.
// Empty IDs are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// MapEvent converts a flow event to AG-UI events.
// Returns nil for events that have no AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) []events.Event {
	switch e.Type {
	// Run lifecycle
	case event.RunStart:
		return []events.Event{m.RunStarted()}
	case event.RunEnd:
		return []events.Event{m.RunFinished()}
	case event.RunError:
		return []events.Event{m.RunError(e.Error)}

	// Step lifecycle
	case event.StepStart:
		return []events.Event{events.NewStepStartedEvent(e.StepName)}
	case event.StepEnd, event.StepSkipped:
		// Skipped steps are immediately done
		return []events.Event{events.NewStepFinishedEvent(e.StepName)}

	// Message lifecycle
	case event.MessageStart:
		return []events.Event{events.NewTextMessageStartEvent(e.MessageID, events.WithRole(RoleAssistant))}
	case event.MessageDelta:
		return []events.Event{events.NewTextMessageContentEvent(e.MessageID, e.Delta)}
	case event.MessageEnd:
		return []events.Event{events.NewTextMessageEndEvent(e.MessageID)}

	default:
		return nil
	}
}

// MapStream maps every event from in. The returned channel closes when in
// closes.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event, 16)
	go func() {
		defer close(out)
		for e := range in {
			for _, ev := range m.MapEvent(e) {
				out <- ev
			}
		}
	}()
	return out
}
