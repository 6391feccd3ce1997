package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/scout/core"
)

// ErrNoScriptedResponse is returned when a MockTextGenerator runs out of
// scripted responses and has no GenerateTextFunc.
var ErrNoScriptedResponse = errors.New("mock: no scripted response left")

// Call records the arguments of one GenerateText invocation.
type Call struct {
	SystemPrompt string
	Messages     []core.DialogueTurn
}

// MockTextGenerator is a test double for ai.TextGenerator.
// It replays scripted responses in order unless GenerateTextFunc is set.
// Safe for concurrent use.
type MockTextGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, the next scripted response is returned.
	GenerateTextFunc func(ctx context.Context, systemPrompt string, messages []core.DialogueTurn) (string, error)

	mu        sync.Mutex
	responses []string
	calls     []Call
}

// NewMockTextGenerator creates a mock generator that returns the given
// responses in order, one per call.
// Note: Returns concrete type to allow test assertions.
func NewMockTextGenerator(responses ...string) *MockTextGenerator {
	return &MockTextGenerator{responses: responses}
}

// WithGenerateTextFunc sets custom behavior and returns the mock for chaining.
func (m *MockTextGenerator) WithGenerateTextFunc(fn func(ctx context.Context, systemPrompt string, messages []core.DialogueTurn) (string, error)) *MockTextGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTextFunc = fn
	return m
}

// GenerateText records the call and returns the next scripted response.
func (m *MockTextGenerator) GenerateText(ctx context.Context, systemPrompt string, messages []core.DialogueTurn) (string, error) {
	m.mu.Lock()
	copied := make([]core.DialogueTurn, len(messages))
	copy(copied, messages)
	m.calls = append(m.calls, Call{SystemPrompt: systemPrompt, Messages: copied})
	fn := m.GenerateTextFunc
	if fn == nil {
		defer m.mu.Unlock()
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(m.responses) == 0 {
			return "", ErrNoScriptedResponse
		}
		next := m.responses[0]
		m.responses = m.responses[1:]
		return next, nil
	}
	m.mu.Unlock()
	return fn(ctx, systemPrompt, messages)
}

// CallCount returns the number of times GenerateText was called.
func (m *MockTextGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockTextGenerator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Push appends scripted responses.
func (m *MockTextGenerator) Push(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// Reset clears recorded calls, scripted responses and custom behavior.
func (m *MockTextGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.responses = nil
	m.GenerateTextFunc = nil
}
