package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/scout/ai/mock"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHistory(n int) []core.DialogueTurn {
	history := make([]core.DialogueTurn, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			history = append(history, core.DialogueTurn{Role: core.RoleUser, Content: "user message " + string(rune('a'+i))})
		} else {
			history = append(history, core.DialogueTurn{Role: core.RoleAssistant, Content: "assistant reply"})
		}
	}
	return history
}

func TestSummarize_BelowThreshold(t *testing.T) {
	gen := mock.NewMockTextGenerator("should not be used")
	s, err := NewSummarizer(gen)
	require.NoError(t, err)

	assert.Equal(t, "", s.Summarize(context.Background(), makeHistory(6), nil))
	assert.Equal(t, 0, gen.CallCount())
}

func TestSummarize_AboveThreshold(t *testing.T) {
	gen := mock.NewMockTextGenerator("  Backend developers in São Paulo, junior level.  ")
	s, err := NewSummarizer(gen)
	require.NoError(t, err)

	feedback := []core.ProfileFeedback{
		{ProfileID: "p1", Interesting: true, Reason: "experiência com Go"},
		{ProfileID: "p2", Interesting: true},
		{ProfileID: "p3", Interesting: true, Reason: "fintech"},
		{ProfileID: "p4", Interesting: false, Reason: "muito senior"},
	}
	summary, err := s.TrySummarize(context.Background(), makeHistory(7), feedback)
	require.NoError(t, err)
	assert.Equal(t, "Backend developers in São Paulo, junior level.\n"+
		"Feedback pattern: 3 profile(s) marked interesting. Reasons: experiência com Go; fintech. "+
		"Rejections: 1 too senior, 0 too junior.", summary)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Messages, 1)
	input := calls[0].Messages[0].Content
	assert.Contains(t, input, "1. user message a")
	assert.Contains(t, input, "4. user message g")
	assert.NotContains(t, input, "assistant reply")
}

func TestSummarize_FailureReturnsEmpty(t *testing.T) {
	tests := []struct {
		name string
		gen  *mock.MockTextGenerator
	}{
		{"backend error", mock.NewMockTextGenerator().WithGenerateTextFunc(func(ctx context.Context, _ string, _ []core.DialogueTurn) (string, error) {
			return "", errors.New("boom")
		})},
		{"empty output", mock.NewMockTextGenerator("   ")},
		{"timeout", mock.NewMockTextGenerator().WithGenerateTextFunc(func(ctx context.Context, _ string, _ []core.DialogueTurn) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSummarizer(tt.gen, WithTimeout(20*time.Millisecond))
			require.NoError(t, err)

			summary, err := s.TrySummarize(context.Background(), makeHistory(8), nil)
			assert.Equal(t, "", summary)
			assert.ErrorIs(t, err, core.ErrSummarizationFailed)
			assert.Equal(t, "", s.Summarize(context.Background(), makeHistory(8), nil))
		})
	}
}

func TestSummarize_Cache(t *testing.T) {
	cache, backend, err := badger.NewMemorySummaryCache()
	require.NoError(t, err)
	defer backend.Close()

	gen := mock.NewMockTextGenerator("Junior backend developers.")
	s, err := NewSummarizer(gen, WithCache(cache))
	require.NoError(t, err)

	ctx := context.Background()
	first := s.Summarize(ctx, makeHistory(7), nil)
	second := s.Summarize(ctx, makeHistory(7), []core.ProfileFeedback{{ProfileID: "p1", Interesting: true}})

	assert.Equal(t, "Junior backend developers.", first)
	assert.True(t, strings.HasPrefix(second, "Junior backend developers.\n"))
	assert.Equal(t, 1, gen.CallCount())
}

func TestSummarize_NoUserTurns(t *testing.T) {
	gen := mock.NewMockTextGenerator("unused")
	s, err := NewSummarizer(gen, WithThreshold(0))
	require.NoError(t, err)

	history := []core.DialogueTurn{{Role: core.RoleAssistant, Content: "hello"}}
	assert.Equal(t, "", s.Summarize(context.Background(), history, nil))
	assert.Equal(t, 0, gen.CallCount())
}

func TestNewSummarizer_Errors(t *testing.T) {
	_, err := NewSummarizer(nil)
	assert.ErrorIs(t, err, ErrTextGeneratorRequired)

	_, err = NewSummarizer(mock.NewMockTextGenerator(), WithThreshold(-1))
	assert.Error(t, err)
}

func TestFeedbackAddendum(t *testing.T) {
	assert.Equal(t, "", FeedbackAddendum(nil))
	assert.Equal(t, "Feedback pattern: 1 profile(s) marked interesting.",
		FeedbackAddendum([]core.ProfileFeedback{{ProfileID: "p1", Interesting: true, Reason: "  "}}))
}
