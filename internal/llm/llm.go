// Package llm provides chat, embedding and token-counting clients for the
// Google Vertex AI and Gemini APIs over a shared prompt model.
package llm

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Interaction is one turn of a conversation.
type Interaction struct {
	Role    Role
	Content string
}

// Example is a few-shot input/output pair rendered into the prompt.
type Example struct {
	Input  string
	Output string
}

// ChatPrompt is the provider-independent prompt. Completed chat calls append
// the assistant reply to Interactions, so the same prompt value can be reused
// for the next turn.
type ChatPrompt struct {
	SystemContext   string
	Examples        []Example
	Interactions    []Interaction
	Temperature     *float64
	MaxOutputTokens *int
}

// AddUserMessage appends a user turn to the prompt.
func (p *ChatPrompt) AddUserMessage(content string) {
	p.Interactions = append(p.Interactions, Interaction{Role: RoleUser, Content: content})
}

func (p *ChatPrompt) appendAssistant(content string) {
	p.Interactions = append(p.Interactions, Interaction{Role: RoleAssistant, Content: content})
}

// StreamCallbacks receives events for one streaming chat call. OnPartial is
// invoked zero or more times with the best-effort text decoded so far, then
// exactly one of OnSuccess or OnError fires. Callbacks run on the transport
// goroutine; callers needing single-threaded delivery must serialize
// externally.
type StreamCallbacks struct {
	OnPartial func(text string)
	OnSuccess func(text string)
	OnError   func(err error)
}

// EmbedCallbacks receives the result of one asynchronous embedding call.
// Exactly one of OnSuccess or OnError fires.
type EmbedCallbacks struct {
	OnSuccess func(vector []float64)
	OnError   func(err error)
}

// Provider is the capability set shared by both backends. Concurrent calls
// against the same Provider or ChatPrompt are not supported; the caller
// serializes them.
type Provider interface {
	Chat(ctx context.Context, prompt *ChatPrompt) (string, error)
	ChatStreaming(ctx context.Context, prompt *ChatPrompt, cb StreamCallbacks) error
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedAsync(ctx context.Context, text string, cb EmbedCallbacks) error
	CountTokens(ctx context.Context, prompt *ChatPrompt) (int, error)
}
