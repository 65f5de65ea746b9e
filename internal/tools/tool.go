package tools

import (
	"context"
	"time"

	"xantus-mcp-go/internal/validate"
)

// Tool is the interface that all tools must implement.
type Tool interface {
	// Name returns the unique name of the tool.
	Name() string

	// Definition returns the tool's wire-facing definition, including
	// its declared input schema.
	Definition() Definition

	// Call executes the tool with the given arguments and per-request
	// context. Handler-local failures are returned as a Response with
	// IsError set; a non-nil error is reserved for infrastructure
	// failures.
	Call(ctx context.Context, tc ToolContext, args map[string]any) (*Response, error)
}

// Definition is the handler-free description of a tool as exchanged
// with the caller.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema validate.Schema `json:"inputSchema"`
}

// ToolContext carries the per-invocation request metadata. It is
// created immediately before dispatch and discarded after the call
// returns; never persisted or shared across calls.
type ToolContext struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// NewToolContext creates a context for a single invocation.
func NewToolContext(requestID string) ToolContext {
	return ToolContext{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Content is a single typed block of response payload.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the normalized result of a tool call. Block order is
// significant; consumers may read only the first block.
type Response struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResponse builds a successful response from one or more text blocks.
func TextResponse(blocks ...string) *Response {
	content := make([]Content, len(blocks))
	for i, text := range blocks {
		content[i] = Content{Type: "text", Text: text}
	}
	return &Response{Content: content}
}

// ErrorResponse builds a handler-local failure response. The message is
// prefixed "Error:" so the caller always gets a text explanation.
func ErrorResponse(message string) *Response {
	return &Response{
		Content: []Content{{Type: "text", Text: "Error: " + message}},
		IsError: true,
	}
}
