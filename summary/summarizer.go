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

// Package summary compresses long conversations into a short statement of
// durable search criteria.
//
// Summaries are advisory prompt context. They never produce mandatory
// constraints, and a failed summary degrades to an empty string rather than
// failing the turn.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/criteria"
	"github.com/poiesic/scout/storage"
)

// DefaultThreshold is the history length above which summaries are produced.
const DefaultThreshold = 6

// ErrTextGeneratorRequired is returned when no text generator is provided.
var ErrTextGeneratorRequired = errors.New("text generator required")

// Summarizer produces context summaries with a text generator.
// Safe for concurrent use.
type Summarizer struct {
	generator ai.TextGenerator
	cache     storage.SummaryCache
	threshold int
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "summarizer")
		return nil
	}
}

// WithThreshold sets the history length that must be exceeded before a
// summary is produced. Default is DefaultThreshold.
func WithThreshold(threshold int) Option {
	return func(s *Summarizer) error {
		if threshold < 0 {
			return errors.New("summary threshold cannot be negative")
		}
		s.threshold = threshold
		return nil
	}
}

// WithCache stores backend summaries keyed by their input.
func WithCache(cache storage.SummaryCache) Option {
	return func(s *Summarizer) error {
		s.cache = cache
		return nil
	}
}

// WithTimeout bounds the backend call. Zero leaves the caller's deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Summarizer) error {
		if timeout < 0 {
			return errors.New("summary timeout cannot be negative")
		}
		s.timeout = timeout
		return nil
	}
}

// NewSummarizer creates a summarizer backed by generator.
func NewSummarizer(generator ai.TextGenerator, opts ...Option) (*Summarizer, error) {
	if generator == nil {
		return nil, ErrTextGeneratorRequired
	}
	s := &Summarizer{
		generator: generator,
		threshold: DefaultThreshold,
		logger:    slog.Default().With("component", "summarizer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Summarize returns the context summary for a conversation, or "" when the
// history is short or summarization fails.
func (s *Summarizer) Summarize(ctx context.Context, history []core.DialogueTurn, feedback []core.ProfileFeedback) string {
	summary, _ := s.TrySummarize(ctx, history, feedback)
	return summary
}

// TrySummarize is Summarize that also reports why a summary is empty.
// A non-nil error always wraps core.ErrSummarizationFailed and is
// recoverable; the returned summary is then "".
func (s *Summarizer) TrySummarize(ctx context.Context, history []core.DialogueTurn, feedback []core.ProfileFeedback) (string, error) {
	if len(history) <= s.threshold {
		return "", nil
	}

	input := buildInput(history)
	if input == "" {
		return "", nil
	}
	fingerprint := systemPrompt + "\n" + input

	criteriaText, err := s.cached(ctx, fingerprint)
	if err != nil {
		criteriaText, err = s.generate(ctx, input)
		if err != nil {
			err = fmt.Errorf("%w: %w", core.ErrSummarizationFailed, err)
			s.logger.Warn("summarization failed", "history", len(history), "err", err)
			return "", err
		}
		s.store(ctx, fingerprint, criteriaText)
	}

	summary := criteriaText
	if addendum := FeedbackAddendum(feedback); addendum != "" {
		summary += "\n" + addendum
	}
	s.logger.Debug("summarized conversation", "history", len(history), "length", len(summary))
	return summary, nil
}

func (s *Summarizer) generate(ctx context.Context, input string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateText(ctx, systemPrompt, []core.DialogueTurn{
		{Role: core.RoleUser, Content: input},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, core.ErrBackendTimeout) {
			err = fmt.Errorf("%w: %w", core.ErrBackendTimeout, err)
		}
		return "", err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", errors.New("backend returned an empty summary")
	}
	return text, nil
}

func (s *Summarizer) cached(ctx context.Context, fingerprint string) (string, error) {
	if s.cache == nil {
		return "", storage.ErrNotFound
	}
	text, err := s.cache.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("summary cache lookup failed", "err", err)
		}
		return "", err
	}
	s.logger.Debug("summary cache hit")
	return text, nil
}

func (s *Summarizer) store(ctx context.Context, fingerprint, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, fingerprint, text); err != nil {
		s.logger.Warn("failed to cache summary", "err", err)
	}
}

// buildInput lists the user-authored turns, oldest first.
func buildInput(history []core.DialogueTurn) string {
	var b strings.Builder
	n := 0
	for _, turn := range history {
		if turn.Role != core.RoleUser {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, content)
	}
	if n == 0 {
		return ""
	}
	return "Recruiter messages, oldest first:\n" + b.String()
}

// FeedbackAddendum describes the feedback pattern deterministically: how
// many profiles were marked interesting and why, plus the rejection counts
// per seniority family. Returns "" when there is nothing to report.
func FeedbackAddendum(feedback []core.ProfileFeedback) string {
	var reasons []string
	for _, fb := range feedback {
		if !fb.Interesting {
			continue
		}
		if r := strings.TrimSpace(fb.Reason); r != "" {
			reasons = append(reasons, r)
		}
	}

	signals := criteria.Tally(feedback)
	var parts []string
	if signals.Positives > 0 {
		line := fmt.Sprintf("Feedback pattern: %d profile(s) marked interesting.", signals.Positives)
		if len(reasons) > 0 {
			line += " Reasons: " + strings.Join(reasons, "; ") + "."
		}
		parts = append(parts, line)
	}
	if signals.TooSenior > 0 || signals.TooJunior > 0 {
		parts = append(parts, fmt.Sprintf("Rejections: %d too senior, %d too junior.", signals.TooSenior, signals.TooJunior))
	}
	return strings.Join(parts, " ")
}
