package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction. Question generation
// and short-answer grading both go through it.
type Provider interface {
	// Generate sends a prompt and returns the response. When req.Schema is
	// set, the provider requests structured output and the returned Content
	// has been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier the provider is configured for.
	ModelID() string
}

// Request describes one LLM call.
type Request struct {
	Purpose  Purpose
	System   string
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Nil means the
	// response is raw text.
	Schema *Schema

	// MaxTokens bounds the response. Zero takes the purpose default.
	MaxTokens int

	// Temperature ranges 0.0 - 1.0; zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "question-set").
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the LLM output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Stop reasons reported on Response.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish validates provider output and assembles the Response. Truncated
// structured output can never validate, so it is reported as
// ErrMaxTokensExceeded instead of a schema failure.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
