package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	ai "github.com/spetersoncode/finsight"
)

func TestConvertMessagesResolvesToolNames(t *testing.T) {
	contents, system := convertMessages([]ai.Message{
		ai.SystemMessage("Extract keywords."),
		ai.UserMessage("Revenue grew."),
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "c1", Name: "extract_keywords", Arguments: `{"answer":"Revenue grew."}`}}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "c1", Content: "revenue, grew"}),
	})

	require.NotNil(t, system)
	assert.Equal(t, "Extract keywords.", system.Parts[0].Text)
	require.Len(t, contents, 3)
	assert.Equal(t, "model", contents[1].Role)

	resp := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Equal(t, "extract_keywords", resp.Name)
	assert.Equal(t, map[string]any{"output": "revenue, grew"}, resp.Response)
}

func TestConvertToolChoice(t *testing.T) {
	assert.Equal(t, genai.FunctionCallingConfigModeAuto, convertToolChoice("").FunctionCallingConfig.Mode)
	assert.Equal(t, genai.FunctionCallingConfigModeNone, convertToolChoice(ai.ToolChoiceNone).FunctionCallingConfig.Mode)
	assert.Equal(t, genai.FunctionCallingConfigModeAny, convertToolChoice(ai.ToolChoiceRequired).FunctionCallingConfig.Mode)
}
