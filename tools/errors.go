package tools

import "encoding/json"

// Error codes surfaced to the model inside tool_result blocks.
const (
	ErrInvalidArgs  = "ERR_INVALID_ARGS"
	ErrToolNotFound = "ERR_TOOL_NOT_FOUND"
)

// ToolError is a machine-readable error body for surfacing back to the agent as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}
