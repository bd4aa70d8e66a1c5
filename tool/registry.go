// Package tool registers local tool handlers that crews offer to the model.
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("parse_mcqs", "Parse quiz text", parseHandler),
//	)
//
// Both [Registry] and the MCP remote registry satisfy [Executor].
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	ai "github.com/spetersoncode/finsight"
)

// Handler executes a tool call and returns the result content.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler executes a tool call whose JSON arguments were decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Executor is anything that can list tools and execute calls to them.
type Executor interface {
	Tools() []ai.Tool
	Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error)
}

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrToolAlreadyRegistered is returned when registering a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool with its handler.
func (r *Registry) Register(t ai.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: t.Name}
	}
	r.tools[t.Name] = registeredTool{tool: t, handler: handler}
	return nil
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration whose parameter schema is derived from T.
// Panics if T is not a struct.
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  ai.MustSchemaFor[T](),
		},
		Handler: func(ctx context.Context, call ai.ToolCall) (string, error) {
			var args T
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", fmt.Errorf("decode arguments: %w", err)
			}
			return fn(ctx, args)
		},
	}
}

// Add registers tools and returns the registry for chaining.
// Panics on duplicate names.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		if err := r.Register(reg.Tool, reg.Handler); err != nil {
			panic(err)
		}
	}
	return r
}

// Tools returns all registered tool definitions sorted by name.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the handler for call. A handler error is returned inside the
// ToolResult with IsError set so the model can see and recover from it; only
// an unknown tool is reported as an error.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	content, err := rt.handler(ctx, call)
	if err != nil {
		return ai.ToolResult{ToolCallID: call.ID, Content: err.Error(), IsError: true}, nil
	}
	return ai.ToolResult{ToolCallID: call.ID, Content: content}, nil
}

var _ Executor = (*Registry)(nil)
