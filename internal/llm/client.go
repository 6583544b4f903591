package llm

import "context"

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Usage is the token accounting reported by the upstream API.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Request is a single completion call: a system prompt plus the conversation
// so far.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// Completion is the assistant's reply with its actual model and token usage.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Client is the language-model boundary. One implementation talks to the
// Anthropic API; tests substitute their own.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
