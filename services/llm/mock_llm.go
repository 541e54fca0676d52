package llm

import (
	"context"
	"sync"
)

// MockClient is a deterministic in-process backend for tests and for
// running the service without an API key. Responses are served in
// order; when the list is exhausted the last entry repeats.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int

	// Prompts records every prompt or final user message received.
	Prompts []string
}

// NewMockClient returns a client that replies with the given responses.
func NewMockClient(responses ...string) *MockClient {
	if len(responses) == 0 {
		responses = []string{"{}"}
	}
	return &MockClient{responses: responses}
}

// NewFailingMockClient returns a client whose calls all fail with err.
func NewFailingMockClient(err error) *MockClient {
	return &MockClient{err: err}
}

// Generate implements the LLMClient interface.
func (m *MockClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	return m.next(ctx, prompt)
}

// Chat implements the LLMClient interface.
func (m *MockClient) Chat(ctx context.Context, system string, messages []Message, params GenerationParams) (string, error) {
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	return m.next(ctx, last)
}

// Calls returns the number of completed calls.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockClient) next(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.Prompts = append(m.Prompts, prompt)
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	return m.responses[idx], nil
}
