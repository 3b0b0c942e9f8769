package llmclient

import "errors"

// ErrEmptyResponse is returned when the model answers with no candidates
// or no usable parts.
var ErrEmptyResponse = errors.New("empty response from LLM")

// Message is one turn of a conversation, transport-neutral.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// ToolCall is a structured function call returned by the model instead of
// (or alongside) free text.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ChatResult carries whichever of text and tool call the model produced.
type ChatResult struct {
	Text string
	Call *ToolCall
}
