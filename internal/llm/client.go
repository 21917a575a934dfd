// Package llm provides a provider-neutral chat-completion client used by the
// dialogue agent for intent classification, slot extraction, and reply
// generation.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request is a provider-neutral completion request.
type Request struct {
	Model       string
	System      []string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Response carries the model output.
type Response struct {
	Text       string
	Usage      Usage
	StopReason string
}

// Client abstracts a chat-completion provider so the agent can be tested
// against fakes and switched between Gemini and Bedrock without changing
// callers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
