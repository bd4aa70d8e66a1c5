package agui

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/finsight/event"
)

func TestNewMapper(t *testing.T) {
	t.Run("with provided IDs", func(t *testing.T) {
		m := NewMapper("thread-123", "run-456")
		if m.ThreadID() != "thread-123" {
			t.Errorf("expected thread ID 'thread-123', got %q", m.ThreadID())
		}
		if m.RunID() != "run-456" {
			t.Errorf("expected run ID 'run-456', got %q", m.RunID())
		}
	})

	t.Run("generates IDs when empty", func(t *testing.T) {
		m := NewMapper("", "")
		if m.ThreadID() == "" {
			t.Error("expected generated thread ID, got empty")
		}
		if m.RunID() == "" {
			t.Error("expected generated run ID, got empty")
		}
	})
}

func types(evs []events.Event) []events.EventType {
	out := make([]events.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type()
	}
	return out
}

func assertTypes(t *testing.T, got []events.Event, want ...events.EventType) {
	t.Helper()
	gotTypes := types(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("expected %d events %v, got %d: %v", len(want), want, len(gotTypes), gotTypes)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], gotTypes[i])
		}
	}
}

func TestMapper_MapEvent(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	tests := []struct {
		name  string
		event event.Event
		want  []events.EventType
	}{
		{"run start", event.Event{Type: event.RunStart}, []events.EventType{events.EventTypeRunStarted}},
		{"run error", event.Event{Type: event.RunError, Error: errors.New("boom")}, []events.EventType{events.EventTypeRunError}},
		{"step start", event.Event{Type: event.StepStart, StepName: "get_the_question"}, []events.EventType{events.EventTypeStepStarted}},
		{"step end", event.Event{Type: event.StepEnd, StepName: "get_the_question"}, []events.EventType{events.EventTypeStepFinished}},
		{"step skipped", event.Event{Type: event.StepSkipped, StepName: "generate_keywords"}, []events.EventType{events.EventTypeStepFinished}},
		{"message start", event.Event{Type: event.MessageStart, MessageID: "m"}, []events.EventType{events.EventTypeTextMessageStart}},
		{"message delta", event.Event{Type: event.MessageDelta, MessageID: "m", Delta: "hi"}, []events.EventType{events.EventTypeTextMessageContent}},
		{"message end", event.Event{Type: event.MessageEnd, MessageID: "m"}, []events.EventType{events.EventTypeTextMessageEnd}},
		{"run end", event.Event{Type: event.RunEnd, Payload: map[string]any{"success": true}}, []events.EventType{events.EventTypeRunFinished}},
		{"unknown", event.Event{Type: "other"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTypes(t, m.MapEvent(tt.event), tt.want...)
		})
	}
}

func TestMapper_MapStream(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	t.Run("maps events in order", func(t *testing.T) {
		input := make(chan event.Event, 10)
		input <- event.Event{Type: event.RunStart}
		input <- event.Event{Type: event.StepStart, StepName: "a"}
		input <- event.Event{Type: "ignored"}
		input <- event.Event{Type: event.StepEnd, StepName: "a"}
		input <- event.Event{Type: event.MessageStart, MessageID: "m1"}
		input <- event.Event{Type: event.MessageDelta, MessageID: "m1", Delta: `{"keywords":"cash, debt"}`}
		input <- event.Event{Type: event.MessageEnd, MessageID: "m1"}
		input <- event.Event{Type: event.RunEnd, Payload: map[string]any{"keywords": "cash, debt"}}
		close(input)

		var got []events.Event
		for ev := range m.MapStream(input) {
			got = append(got, ev)
		}
		assertTypes(t, got,
			events.EventTypeRunStarted,
			events.EventTypeStepStarted,
			events.EventTypeStepFinished,
			events.EventTypeTextMessageStart,
			events.EventTypeTextMessageContent,
			events.EventTypeTextMessageEnd,
			events.EventTypeRunFinished,
		)

		content, ok := got[4].(*events.TextMessageContentEvent)
		if !ok {
			t.Fatalf("expected *TextMessageContentEvent, got %T", got[4])
		}
		if content.MessageID != "m1" {
			t.Errorf("expected message ID m1, got %s", content.MessageID)
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(content.Delta), &decoded); err != nil {
			t.Fatalf("content is not JSON: %v", err)
		}
		if decoded["keywords"] != "cash, debt" {
			t.Errorf("expected keywords in output, got %v", decoded)
		}
	})

	t.Run("closes output when input closes", func(t *testing.T) {
		input := make(chan event.Event)
		output := m.MapStream(input)
		close(input)

		if _, open := <-output; open {
			t.Error("expected output channel to be closed")
		}
	})
}
