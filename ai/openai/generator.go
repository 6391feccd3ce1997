// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "scout.ai.openai"

// Generator implements ai.TextGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	model       string
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger.With("component", "openai-generator")
	}
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config, opts ...Option) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return newGeneratorWithModel(client, config, opts...), nil
}

// newGeneratorWithModel wraps an already constructed langchaingo model.
func newGeneratorWithModel(client llms.Model, config *ai.Config, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
		timeout:     config.Timeout,
		logger:      slog.Default().With("component", "openai-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGenerator creates a new text generator using the provided configuration.
//
// Returns ai.TextGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config, opts ...Option) (ai.TextGenerator, error) {
	return newGenerator(config, opts...)
}

// GenerateText sends the system prompt and dialogue to the chat model and
// returns the content of the first choice. Calls exceeding the configured
// timeout fail with core.ErrBackendTimeout.
func (g *Generator) GenerateText(ctx context.Context, systemPrompt string, messages []core.DialogueTurn) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "openai.Generator.GenerateText",
		trace.WithAttributes(
			attribute.String("model", g.model),
			attribute.Int("message_count", len(messages)),
			attribute.Int("system_prompt_length", len(systemPrompt)),
		),
	)
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	content := buildMessageContent(systemPrompt, messages)

	g.logger.Debug("generating text", "messages", len(content))
	start := time.Now()
	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: after %v: %w", core.ErrBackendTimeout, elapsed.Round(time.Millisecond), err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordGeneration(g.model, elapsed, err)
		g.logger.Error("failed to generate content", "elapsed", elapsed, "err", err)
		return "", err
	}
	recordGeneration(g.model, elapsed, nil)

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", nil
	}

	text := response.Choices[0].Content
	span.SetAttributes(attribute.Int("response_length", len(text)))
	g.logger.Debug("generated text", "length", len(text), "elapsed", elapsed)
	return text, nil
}

// buildMessageContent converts the dialogue into langchaingo chat messages,
// system prompt first. Empty assistant replies are dropped.
func buildMessageContent(systemPrompt string, messages []core.DialogueTurn) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages)+1)
	if systemPrompt != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == core.RoleAssistant {
			if m.Content == "" {
				continue
			}
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}
	return content
}
