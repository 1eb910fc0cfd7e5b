package llm

import (
	"context"
	"errors"
)

// Client is the generative capability. Any error means the caller should
// fall back; failure kinds are not distinguished.
type Client interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
	Chat(ctx context.Context, message string, history []Message, systemPrompt string) (string, error)
}

type Message struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

var ErrNotConfigured = errors.New("GEMINI_API_KEY not configured")

// Disabled is used when no API key is set. Every call fails, which sends
// recommendations down the fallback path.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Chat(context.Context, string, []Message, string) (string, error) {
	return "", ErrNotConfigured
}
