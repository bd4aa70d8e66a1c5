package agui

import (
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// RunFlowInput is an AG-UI request to run a named flow.
type RunFlowInput struct {
	ThreadID string           `json:"thread_id"`
	RunID    string           `json:"run_id"`
	Flow     string           `json:"flow"`
	Messages []events.Message `json:"messages,omitempty"`
	State    map[string]any   `json:"state,omitempty"`
}

// PreparedFlowInput is validated input ready for a flow.Registry.
type PreparedFlowInput struct {
	ThreadID string
	RunID    string
	Flow     string
	State    map[string]any
}

// ErrNoFlowName is returned when the flow name is empty.
var ErrNoFlowName = errors.New("no flow name provided")

// Prepare validates the input. When State carries no question, the content
// of the last user message is used as the question.
func (r *RunFlowInput) Prepare() (*PreparedFlowInput, error) {
	if r.Flow == "" {
		return nil, ErrNoFlowName
	}

	state := make(map[string]any, len(r.State)+1)
	for k, v := range r.State {
		state[k] = v
	}
	if q, _ := state["question"].(string); strings.TrimSpace(q) == "" {
		if text := LastUserMessage(r.Messages); text != "" {
			state["question"] = text
		}
	}

	return &PreparedFlowInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Flow:     r.Flow,
		State:    state,
	}, nil
}

// LastUserMessage returns the content of the last user message, or "".
func LastUserMessage(msgs []events.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" && msgs[i].Content != nil {
			return *msgs[i].Content
		}
	}
	return ""
}
