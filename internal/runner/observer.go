package runner

import "encoding/json"

// Observer receives progress of a running scenario, in order.
type Observer interface {
	// AssistantText receives text sent alongside tool calls. The final answer is not delivered here.
	AssistantText(text string)
	ToolCall(name string, input json.RawMessage)
	ToolResult(call ToolCall)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) AssistantText(string) {}
func (NopObserver) ToolCall(string, json.RawMessage) {}
func (NopObserver) ToolResult(ToolCall) {}
