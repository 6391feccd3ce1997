package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model that records the messages it receives.
type fakeModel struct {
	response string
	err      error
	block    bool
	received []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.received = messages
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.response}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func testConfig(timeout time.Duration) *ai.Config {
	return ai.NewConfig(ai.WithModel("test-model"), ai.WithTimeout(timeout))
}

func TestGenerator_GenerateText(t *testing.T) {
	model := &fakeModel{response: `{"dataQuery": "SELECT id FROM profiles"}`}
	g := newGeneratorWithModel(model, testConfig(time.Second))

	text, err := g.GenerateText(context.Background(), "system prompt", []core.DialogueTurn{
		{Role: core.RoleUser, Content: "engenheiros em SP"},
		{Role: core.RoleAssistant, Content: "Encontrei 3 perfis."},
		{Role: core.RoleUser, Content: "só seniores"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"dataQuery": "SELECT id FROM profiles"}`, text)

	require.Len(t, model.received, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.received[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.received[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.received[2].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.received[3].Role)
}

func TestGenerator_EmptySystemPromptOmitted(t *testing.T) {
	model := &fakeModel{response: "ok"}
	g := newGeneratorWithModel(model, testConfig(time.Second))

	_, err := g.GenerateText(context.Background(), "", []core.DialogueTurn{{Role: core.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	require.Len(t, model.received, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.received[0].Role)
}

func TestGenerator_EmptyAssistantReplyDropped(t *testing.T) {
	model := &fakeModel{response: "ok"}
	g := newGeneratorWithModel(model, testConfig(time.Second))

	_, err := g.GenerateText(context.Background(), "system prompt", []core.DialogueTurn{
		{Role: core.RoleUser, Content: "backend"},
		{Role: core.RoleAssistant, Content: ""},
		{Role: core.RoleUser, Content: "mais"},
	})
	require.NoError(t, err)
	require.Len(t, model.received, 3)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.received[1].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.received[2].Role)
}

func TestGenerator_Timeout(t *testing.T) {
	model := &fakeModel{block: true}
	g := newGeneratorWithModel(model, testConfig(20*time.Millisecond))

	_, err := g.GenerateText(context.Background(), "system", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBackendTimeout)
}

func TestGenerator_BackendError(t *testing.T) {
	backendErr := errors.New("connection refused")
	model := &fakeModel{err: backendErr}
	g := newGeneratorWithModel(model, testConfig(time.Second))

	_, err := g.GenerateText(context.Background(), "system", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	assert.NotErrorIs(t, err, core.ErrBackendTimeout)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(ai.NewConfig(ai.WithModel("")))
	assert.Error(t, err)
}
