package mcp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/keywords"
	"github.com/spetersoncode/finsight/tool"
)

func TestToolConversion(t *testing.T) {
	t.Run("round trips a tool", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"answer":{"type":"string"}}}`)
		in := ai.Tool{Name: "extract", Description: "Extract", Parameters: schema}

		out := FromMCPTool(ToMCPTool(in))
		assert.Equal(t, "extract", out.Name)
		assert.Equal(t, "Extract", out.Description)
		assert.JSONEq(t, string(schema), string(out.Parameters))
	})

	t.Run("structured schema", func(t *testing.T) {
		mt := mcp.NewTool("extract_keywords",
			mcp.WithDescription("Extract keywords"),
			mcp.WithString("answer", mcp.Required(), mcp.Description("Answer text")),
		)
		out := FromMCPTool(mt)
		assert.Contains(t, string(out.Parameters), "answer")
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	req := ToMCPCallToolRequest(ai.ToolCall{Name: "calc", Arguments: `{"a": 10}`})
	assert.Equal(t, "calc", req.Params.Name)
	args, ok := req.Params.Arguments.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), args["a"])

	req = ToMCPCallToolRequest(ai.ToolCall{Name: "raw", Arguments: "not json"})
	assert.Equal(t, "not json", req.Params.Arguments)

	req = ToMCPCallToolRequest(ai.ToolCall{Name: "none"})
	assert.Nil(t, req.Params.Arguments)
}

func TestFromMCPCallToolResult(t *testing.T) {
	res := FromMCPCallToolResult("c1", mcp.NewToolResultText("revenue, margin"))
	assert.Equal(t, ai.ToolResult{ToolCallID: "c1", Content: "revenue, margin"}, res)

	res = FromMCPCallToolResult("c2", mcp.NewToolResultError("bad"))
	assert.True(t, res.IsError)
	assert.Equal(t, "bad", res.Content)

	res = FromMCPCallToolResult("c3", nil)
	assert.True(t, res.IsError)
}

func TestKeywordServerInProcess(t *testing.T) {
	c, err := client.NewInProcessClient(NewKeywordServer())
	require.NoError(t, err)

	ctx := context.Background()
	remote, err := NewRemoteRegistryFromClient(ctx, c)
	require.NoError(t, err)
	defer remote.Close()

	require.True(t, remote.Has(keywords.ToolName))
	tools := remote.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, keywords.ToolDescription, tools[0].Description)

	res, err := remote.Execute(ctx, ai.ToolCall{
		ID:        "call_1",
		Name:      keywords.ToolName,
		Arguments: `{"answer":"Net revenue grew while net margin shrank; revenue matters."}`,
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "call_1", res.ToolCallID)
	assert.Equal(t, "net, revenue, grew, while, margin", res.Content)

	_, err = remote.Execute(ctx, ai.ToolCall{Name: "unknown"})
	var notFound *tool.ErrToolNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestServerReportsHandlerErrors(t *testing.T) {
	registry := tool.NewRegistry().Add(
		tool.Func("fail", "Always fails", func(ctx context.Context, args struct{}) (string, error) {
			return "", assert.AnError
		}),
	)

	c, err := client.NewInProcessClient(NewServer(registry))
	require.NoError(t, err)

	ctx := context.Background()
	remote, err := NewRemoteRegistryFromClient(ctx, c)
	require.NoError(t, err)
	defer remote.Close()

	res, err := remote.Execute(ctx, ai.ToolCall{ID: "x", Name: "fail", Arguments: `{}`})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, assert.AnError.Error(), res.Content)
}

func TestKeywordServerOverHTTP(t *testing.T) {
	srv := httptest.NewServer(HTTPHandler(NewKeywordServer()))
	defer srv.Close()

	ctx := context.Background()
	remote, err := NewRemoteRegistryHTTP(ctx, srv.URL+EndpointPath)
	require.NoError(t, err)
	defer remote.Close()

	res, err := remote.Execute(ctx, ai.ToolCall{
		ID:        "h1",
		Name:      keywords.ToolName,
		Arguments: `{"answer":"liquidity liquidity ratio"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "liquidity, ratio", res.Content)
}
