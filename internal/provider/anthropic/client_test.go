package anthropic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/finsight"
)

func TestConvertMessagesSplitsSystem(t *testing.T) {
	msgs, system := convertMessages([]ai.Message{
		ai.SystemMessage("Be concise."),
		ai.SystemMessage(""),
		ai.UserMessage("Summarize the report."),
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "t1", Name: "extract_keywords", Arguments: `{"answer":"x"}`}}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "t1", Content: "revenue, growth"}),
	})

	require.Len(t, system, 1)
	assert.Equal(t, "Be concise.", system[0].Text)
	require.Len(t, msgs, 3)
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestConvertToolsRequired(t *testing.T) {
	tools := convertTools([]ai.Tool{{
		Name:       "extract_keywords",
		Parameters: json.RawMessage(`{"type":"object","properties":{"answer":{"type":"string"}},"required":["answer"]}`),
	}})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, []string{"answer"}, tools[0].OfTool.InputSchema.Required)
}
