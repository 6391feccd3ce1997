package ai

import (
	"context"

	"github.com/poiesic/scout/core"
)

// TextGenerator produces a single chat-style completion.
// Implementations must be thread-safe for concurrent use and must treat each
// call independently; no conversation state is kept between calls.
type TextGenerator interface {
	// GenerateText sends the system prompt followed by the dialogue messages
	// and returns the raw text of the first completion choice.
	// Returns an error if the backend call fails or the context expires.
	GenerateText(ctx context.Context, systemPrompt string, messages []core.DialogueTurn) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// TextGenerator returns the text generation service.
	// The returned TextGenerator is safe for concurrent use.
	TextGenerator() TextGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
