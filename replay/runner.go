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

package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scout/core"
)

// Processor answers one conversational turn.
type Processor interface {
	ProcessTurn(ctx context.Context, req core.TurnRequest) (*core.SearchResult, error)
}

// TurnOutcome is the observed result of one scripted turn.
type TurnOutcome struct {
	Message  string        `json:"message"`
	Rows     int           `json:"rows"`
	Total    int64         `json:"totalCount"`
	Relaxed  bool          `json:"relaxed"`
	Query    string        `json:"dataQuery,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
	Error    string        `json:"error,omitempty"`
	Failures []string      `json:"failures,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// ScenarioResult is the outcome of one conversation.
type ScenarioResult struct {
	ID      string        `json:"id"`
	Turns   []TurnOutcome `json:"turns"`
	Passed  bool          `json:"passed"`
	Elapsed time.Duration `json:"elapsed"`
}

// Report summarizes a replay run. Results keep scenario order.
type Report struct {
	Results []ScenarioResult `json:"results"`
	Passed  int              `json:"passed"`
	Failed  int              `json:"failed"`
	Elapsed time.Duration    `json:"elapsed"`
}

// Runner replays scenarios concurrently.
type Runner struct {
	processor   Processor
	poolSize    int
	maxAttempts int
	retryDelay  time.Duration
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets how many conversations run at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		r.poolSize = size
		return nil
	}
}

// WithRetry retries turns that failed on a backend timeout or outage.
// Default is a single attempt.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(r *Runner) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		r.maxAttempts = maxAttempts
		r.retryDelay = baseDelay
		return nil
	}
}

// WithProgress writes progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) error {
		r.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a runner around processor.
func NewRunner(processor Processor, opts ...Option) (*Runner, error) {
	if processor == nil {
		return nil, ErrTurnProcessorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	r := &Runner{
		processor:   processor,
		poolSize:    poolSize,
		maxAttempts: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "replay")
	return r, nil
}

// Run replays every scenario and waits for all of them.
// A cancelled context stops scenarios between turns.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	pool, err := ants.NewPool(r.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	progress := NewProgressTracker(r.progress, len(scenarios))
	progress.Start()

	results := make([]ScenarioResult, len(scenarios))
	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = r.runScenario(ctx, scenarios[i])
			progress.Done(!results[i].Passed)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit scenario %s: %w", scenarios[i].ID, submitErr)
		}
	}
	wg.Wait()
	progress.Finish()

	report := &Report{Results: results, Elapsed: progress.Elapsed()}
	for _, res := range results {
		if res.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	r.logger.Info("replay finished",
		"scenarios", len(scenarios),
		"passed", report.Passed,
		"failed", report.Failed,
		"elapsed", report.Elapsed)
	return report, ctx.Err()
}

// runScenario plays the turns of one conversation in order. History grows
// with each user message and assistant reply; feedback accumulates.
func (r *Runner) runScenario(ctx context.Context, s Scenario) ScenarioResult {
	start := time.Now()
	result := ScenarioResult{ID: s.ID, Passed: true}
	logger := r.logger.With("scenario", s.ID)

	var history []core.DialogueTurn
	var feedback []core.ProfileFeedback
	for _, turn := range s.Turns {
		if ctx.Err() != nil {
			result.Turns = append(result.Turns, TurnOutcome{Message: turn.Message, Error: ctx.Err().Error()})
			result.Passed = false
			break
		}
		feedback = append(feedback, turn.Feedback...)

		req := core.TurnRequest{
			Message:  turn.Message,
			History:  append([]core.DialogueTurn(nil), history...),
			Feedback: append([]core.ProfileFeedback(nil), feedback...),
		}

		turnStart := time.Now()
		var res *core.SearchResult
		err := retryWithBackoff(ctx, logger, func() error {
			var err error
			res, err = r.processor.ProcessTurn(ctx, req)
			return err
		}, r.maxAttempts, r.retryDelay)

		outcome := TurnOutcome{Message: turn.Message, Elapsed: time.Since(turnStart)}
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Rows = len(res.Rows)
			outcome.Total = res.TotalCount
			outcome.Relaxed = res.Relaxed
			outcome.Query = res.DataQuery
			outcome.Warnings = res.Warnings
		}
		outcome.Failures = check(turn.Expect, res, err)
		if len(outcome.Failures) > 0 {
			result.Passed = false
			logger.Warn("turn expectation failed", "message", turn.Message, "failures", outcome.Failures)
		}
		result.Turns = append(result.Turns, outcome)

		if err != nil {
			// Without an answer the conversation cannot continue.
			if turn.Expect == nil || turn.Expect.Error == "" {
				result.Passed = false
			}
			break
		}
		history = append(history,
			core.DialogueTurn{Role: core.RoleUser, Content: turn.Message},
			core.DialogueTurn{Role: core.RoleAssistant, Content: res.AssistantMessage},
		)
	}

	result.Elapsed = time.Since(start)
	return result
}

// check compares a turn result with its expectation.
func check(expect *Expectation, res *core.SearchResult, err error) []string {
	if expect == nil {
		return nil
	}
	var failures []string
	if expect.Error != "" {
		if err == nil {
			return []string{fmt.Sprintf("expected error containing %q, got success", expect.Error)}
		}
		if !strings.Contains(err.Error(), expect.Error) {
			failures = append(failures, fmt.Sprintf("expected error containing %q, got %q", expect.Error, err.Error()))
		}
		return failures
	}
	if err != nil {
		return []string{"unexpected error: " + err.Error()}
	}

	if len(res.Rows) < expect.MinRows {
		failures = append(failures, fmt.Sprintf("expected at least %d rows, got %d", expect.MinRows, len(res.Rows)))
	}
	if expect.MaxRows != nil && len(res.Rows) > *expect.MaxRows {
		failures = append(failures, fmt.Sprintf("expected at most %d rows, got %d", *expect.MaxRows, len(res.Rows)))
	}
	if expect.Relaxed != nil && res.Relaxed != *expect.Relaxed {
		failures = append(failures, fmt.Sprintf("expected relaxed=%v, got %v", *expect.Relaxed, res.Relaxed))
	}
	for _, fragment := range expect.QueryContains {
		if !strings.Contains(res.DataQuery, fragment) {
			failures = append(failures, fmt.Sprintf("query does not contain %q", fragment))
		}
	}
	return failures
}
