package finsight

import "encoding/json"

// Tool describes a function the model may call. Parameters holds a JSON
// Schema object, usually built with SchemaFor.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolCall is a model request to run a tool. Arguments is raw JSON matching
// the tool's Parameters schema.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResult answers the ToolCall with the same ID. Errors are reported to
// the model as content with IsError set rather than aborting the exchange.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// ToolChoice restricts tool use for one request. The zero value leaves the
// decision to the model.
type ToolChoice string

const (
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// NewToolResultMessage wraps results in a tool-role message for the next
// turn of the conversation.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{Role: RoleTool, ToolResults: results}
}
