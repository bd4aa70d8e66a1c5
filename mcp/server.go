package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/keywords"
	"github.com/spetersoncode/finsight/tool"
)

// EndpointPath is where HTTPHandler serves the MCP endpoint.
const EndpointPath = "/mcp"

// ServerOption configures a server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server exposing every tool of exec.
func NewServer(exec tool.Executor, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "finsight",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(cfg.name, cfg.version, server.WithToolCapabilities(true))
	for _, t := range exec.Tools() {
		s.AddTool(ToMCPTool(t), handlerFor(t.Name, exec))
	}
	return s
}

// NewKeywordServer creates the words server exposing extract_keywords.
func NewKeywordServer(opts ...ServerOption) *server.MCPServer {
	registry := tool.NewRegistry().Add(keywords.Tool())
	return NewServer(registry, append([]ServerOption{WithName("words")}, opts...)...)
}

// HTTPHandler serves s over the streamable HTTP transport at EndpointPath.
// The handler is stateless so every request may carry fresh credentials.
func HTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(EndpointPath),
		server.WithStateLess(true),
	)
}

func handlerFor(name string, exec tool.Executor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			args = string(data)
		}

		res, err := exec.Execute(ctx, ai.ToolCall{Name: name, Arguments: args})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return ToMCPCallToolResult(res), nil
	}
}
