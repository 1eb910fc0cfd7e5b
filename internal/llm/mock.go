package llm

import (
	"context"
	"sync"
)

// MockClient returns a canned response or error and records the prompts it
// was given.
type MockClient struct {
	Response string
	Err      error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	m.record(prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Response, m.Err
}

func (m *MockClient) Chat(ctx context.Context, message string, history []Message, systemPrompt string) (string, error) {
	m.record(message)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Response, m.Err
}

func (m *MockClient) record(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, p)
}

func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
