// Package crew runs prompt-templated agents: a persona and a task template
// rendered into a chat conversation, with an optional tool loop.
package crew

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/chat"
	"github.com/spetersoncode/finsight/tool"
)

// DefaultMaxSteps bounds the chat/tool loop when a definition sets none.
const DefaultMaxSteps = 6

// ErrMaxSteps is returned when the model keeps requesting tools.
var ErrMaxSteps = errors.New("crew: max steps exceeded")

// Crew is a single agent with one task.
type Crew struct {
	def    Definition
	client chat.Client
	tools  tool.Executor
	logger *slog.Logger
}

// Option configures a Crew.
type Option func(*Crew)

// WithTools offers the executor's tools to the model.
func WithTools(e tool.Executor) Option {
	return func(c *Crew) {
		c.tools = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Crew) {
		c.logger = l
	}
}

// New creates a crew from a definition.
func New(def Definition, client chat.Client, opts ...Option) *Crew {
	c := &Crew{def: def, client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the crew name.
func (c *Crew) Name() string { return c.def.Name }

// Generate renders the task with inputs, runs the conversation and returns
// the final assistant text.
func (c *Crew) Generate(ctx context.Context, inputs map[string]string) (string, error) {
	messages := []ai.Message{
		ai.SystemMessage(c.def.SystemPrompt()),
		ai.UserMessage(c.def.TaskPrompt(inputs)),
	}

	opts := []ai.Option{ai.WithTemperature(c.def.Temperature)}
	if c.def.MaxTokens > 0 {
		opts = append(opts, ai.WithMaxTokens(c.def.MaxTokens))
	}
	if c.tools != nil {
		if tools := c.tools.Tools(); len(tools) > 0 {
			opts = append(opts, ai.WithTools(tools...))
		}
	}

	maxSteps := c.def.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	var usage ai.Usage
	for step := 1; step <= maxSteps; step++ {
		resp, err := c.client.Chat(ctx, messages, opts...)
		if err != nil {
			return "", fmt.Errorf("crew %s: %w", c.def.Name, err)
		}
		usage = usage.Add(resp.Usage)

		if len(resp.ToolCalls) == 0 || c.tools == nil {
			c.logger.Debug("crew finished",
				"crew", c.def.Name,
				"steps", step,
				"input_tokens", usage.InputTokens,
				"output_tokens", usage.OutputTokens,
			)
			return resp.Content, nil
		}

		messages = append(messages, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		messages = append(messages, ai.NewToolResultMessage(c.executeTools(ctx, resp.ToolCalls)...))
	}

	return "", fmt.Errorf("crew %s: %w", c.def.Name, ErrMaxSteps)
}

func (c *Crew) executeTools(ctx context.Context, calls []ai.ToolCall) []ai.ToolResult {
	results := make([]ai.ToolResult, 0, len(calls))
	for _, call := range calls {
		res, err := c.tools.Execute(ctx, call)
		if err != nil {
			res = ai.ToolResult{ToolCallID: call.ID, Content: err.Error(), IsError: true}
		}
		c.logger.Debug("tool executed", "crew", c.def.Name, "tool", call.Name, "is_error", res.IsError)
		results = append(results, res)
	}
	return results
}
