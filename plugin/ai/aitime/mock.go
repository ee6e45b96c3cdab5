package aitime

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hrygo/fechador/plugin/ai"
)

// MockLLM is a deterministic ai.LLMService for tests.
//
// The last message of each request is matched against Responses by substring,
// longest key first. Unmatched requests get Default, or Err when set.
type MockLLM struct {
	Responses map[string]string
	Default   string
	Err       error

	mu    sync.Mutex
	calls []ai.CompletionRequest
}

// NewMockLLM creates a mock answering with responses.
func NewMockLLM(responses map[string]string) *MockLLM {
	return &MockLLM{Responses: responses}
}

// Complete implements ai.LLMService.
func (m *MockLLM) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if len(req.Messages) == 0 {
		return m.Default, nil
	}
	content := req.Messages[len(req.Messages)-1].Content

	keys := make([]string, 0, len(m.Responses))
	for k := range m.Responses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if strings.Contains(content, k) {
			return m.Responses[k], nil
		}
	}
	return m.Default, nil
}

// Calls returns a copy of every request received.
func (m *MockLLM) Calls() []ai.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.CompletionRequest(nil), m.calls...)
}

var _ ai.LLMService = (*MockLLM)(nil)
