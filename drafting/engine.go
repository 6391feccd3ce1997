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

package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/core"
)

// DefaultWindowSize is the number of recent history turns sent with a draft
// request, not counting the new message.
const DefaultWindowSize = 8

// ErrTextGeneratorRequired is returned when no text generator is provided.
var ErrTextGeneratorRequired = errors.New("text generator required")

// DraftRequest carries everything one drafting call depends on.
type DraftRequest struct {
	// Window is the bounded dialogue sent to the backend, new message last.
	Window []core.DialogueTurn
	// Constraints are the mandatory filters the query must honor.
	Constraints []core.CriticalFilter
	// Summary is optional advisory context.
	Summary string
	// Feedback is the full feedback set of the conversation.
	Feedback []core.ProfileFeedback
}

// Engine turns a draft request into a QueryDraft with one backend call.
// It never retries. Safe for concurrent use.
type Engine struct {
	generator ai.TextGenerator
	parser    *ResponseParser
	validator *draftValidator
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "drafting-engine")
		return nil
	}
}

// WithParser replaces the default response parser.
func WithParser(parser *ResponseParser) Option {
	return func(e *Engine) error {
		if parser == nil {
			return errors.New("response parser cannot be nil")
		}
		e.parser = parser
		return nil
	}
}

// WithTimeout bounds each backend call. Zero leaves the caller's deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout < 0 {
			return errors.New("draft timeout cannot be negative")
		}
		e.timeout = timeout
		return nil
	}
}

// NewEngine creates a drafting engine backed by generator.
func NewEngine(generator ai.TextGenerator, opts ...Option) (*Engine, error) {
	if generator == nil {
		return nil, ErrTextGeneratorRequired
	}
	validator, err := newDraftValidator()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		generator: generator,
		parser:    DefaultResponseParser(),
		validator: validator,
		logger:    slog.Default().With("component", "drafting-engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Draft asks the backend for a query draft.
//
// Errors wrap one of the fatal kinds: core.ErrBackendTimeout or
// core.ErrBackendUnavailable when the call fails, core.ErrBackendResponseUnparsable
// when no JSON object can be extracted, core.ErrIncompleteDraft when the
// object lacks a usable dataQuery.
func (e *Engine) Draft(ctx context.Context, req DraftRequest) (*core.QueryDraft, error) {
	prompt := BuildSystemPrompt(req.Constraints, req.Summary, req.Feedback)

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := e.generator.GenerateText(callCtx, prompt, req.Window)
	if err != nil {
		err = classifyBackendError(callCtx, err)
		e.logger.Error("draft generation failed", "elapsed", time.Since(start), "err", err)
		return nil, err
	}

	payload, strategy, err := e.parser.Parse(raw)
	if err != nil {
		e.logger.Error("unparsable backend response", "response", truncate(raw, 500), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrBackendResponseUnparsable, err)
	}

	if err := e.validator.Validate(payload); err != nil {
		e.logger.Error("incomplete draft", "payload", truncate(string(payload), 500), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrIncompleteDraft, err)
	}

	var draft core.QueryDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrIncompleteDraft, err)
	}
	draft.DataQuery = strings.TrimSpace(draft.DataQuery)
	draft.CountQuery = strings.TrimSpace(draft.CountQuery)

	e.logger.Debug("drafted query",
		"strategy", strategy,
		"elapsed", time.Since(start),
		"constraints", len(req.Constraints),
		"has_count_query", draft.CountQuery != "")
	return &draft, nil
}

func classifyBackendError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrBackendTimeout), errors.Is(err, core.ErrBackendUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", core.ErrBackendTimeout, err)
	default:
		return fmt.Errorf("%w: %w", core.ErrBackendUnavailable, err)
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Window returns the last size turns of history followed by message as a
// user turn. The input slice is not modified.
func Window(history []core.DialogueTurn, message string, size int) []core.DialogueTurn {
	if size < 0 {
		size = 0
	}
	start := len(history) - size
	if start < 0 {
		start = 0
	}
	window := make([]core.DialogueTurn, 0, len(history)-start+1)
	window = append(window, history[start:]...)
	return append(window, core.DialogueTurn{Role: core.RoleUser, Content: message})
}
