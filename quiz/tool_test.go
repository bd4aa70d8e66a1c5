package quiz

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/tool"
)

func TestTool(t *testing.T) {
	registry := tool.NewRegistry().Add(Tool())

	tools := registry.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, ToolName, tools[0].Name)
	assert.Contains(t, string(tools[0].Parameters), "raw_text")

	args, err := json.Marshal(map[string]string{"raw_text": wellFormed})
	require.NoError(t, err)

	res, err := registry.Execute(context.Background(), ai.ToolCall{ID: "1", Name: ToolName, Arguments: string(args)})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	qs, err := Decode(res.Content)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}
