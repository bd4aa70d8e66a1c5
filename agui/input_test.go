package agui

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

func strPtr(s string) *string { return &s }

func TestRunFlowInput_Prepare(t *testing.T) {
	t.Run("requires flow name", func(t *testing.T) {
		in := &RunFlowInput{}
		if _, err := in.Prepare(); !errors.Is(err, ErrNoFlowName) {
			t.Errorf("expected ErrNoFlowName, got %v", err)
		}
	})

	t.Run("question from last user message", func(t *testing.T) {
		in := &RunFlowInput{
			ThreadID: "t",
			RunID:    "r",
			Flow:     "qa",
			Messages: []events.Message{
				{ID: "1", Role: "user", Content: strPtr("first")},
				{ID: "2", Role: "assistant", Content: strPtr("reply")},
				{ID: "3", Role: "user", Content: strPtr("What was EBITDA?")},
			},
		}
		p, err := in.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.State["question"] != "What was EBITDA?" {
			t.Errorf("expected question from last user message, got %v", p.State["question"])
		}
		if p.ThreadID != "t" || p.RunID != "r" || p.Flow != "qa" {
			t.Errorf("unexpected IDs: %+v", p)
		}
	})

	t.Run("explicit question wins", func(t *testing.T) {
		in := &RunFlowInput{
			Flow:     "qa",
			State:    map[string]any{"question": "from state"},
			Messages: []events.Message{{ID: "1", Role: "user", Content: strPtr("from message")}},
		}
		p, err := in.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.State["question"] != "from state" {
			t.Errorf("expected state question, got %v", p.State["question"])
		}
	})

	t.Run("state passes through", func(t *testing.T) {
		var in RunFlowInput
		body := `{"flow": "mcq", "state": {"num_questions": 3, "difficulty": "hard"}}`
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, err := in.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.State["difficulty"] != "hard" || p.State["num_questions"] != float64(3) {
			t.Errorf("unexpected state: %v", p.State)
		}
		if _, ok := p.State["question"]; ok {
			t.Error("expected no question without messages")
		}
	})
}
