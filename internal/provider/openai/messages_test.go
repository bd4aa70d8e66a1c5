package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/finsight"
)

func TestConvertMessages(t *testing.T) {
	messages := []ai.Message{
		ai.SystemMessage("You are a financial analyst."),
		ai.UserMessage("What was revenue?"),
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "call_1", Name: "lookup", Arguments: `{"q":"revenue"}`}}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_1", Content: "42"}),
		{Role: ai.RoleAssistant, Content: "Revenue was 42."},
		{Role: ai.RoleUser},
	}

	converted := convertMessages(messages)
	require.Len(t, converted, 5)

	assert.NotNil(t, converted[0].OfSystem)
	assert.NotNil(t, converted[1].OfUser)
	require.NotNil(t, converted[2].OfAssistant)
	assert.Equal(t, "lookup", converted[2].OfAssistant.ToolCalls[0].Function.Name)
	require.NotNil(t, converted[3].OfTool)
	assert.Equal(t, "call_1", converted[3].OfTool.ToolCallID)
	assert.NotNil(t, converted[4].OfAssistant)
}

func TestConvertTools(t *testing.T) {
	tools := []ai.Tool{{
		Name:        "parse_mcqs",
		Description: "Parse questions",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"raw_text":{"type":"string"}}}`),
	}}

	converted := convertTools(tools)
	require.Len(t, converted, 1)
	assert.Equal(t, "parse_mcqs", converted[0].Function.Name)
	assert.Equal(t, "object", converted[0].Function.Parameters["type"])
}
