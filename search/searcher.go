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

package search

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/criteria"
	"github.com/poiesic/scout/drafting"
	"github.com/poiesic/scout/enforce"
	"github.com/poiesic/scout/storage"
	"github.com/poiesic/scout/summary"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "scout.search"

const (
	// DefaultMaxRows caps the rows returned by one turn.
	DefaultMaxRows = 100

	// DefaultBackendTimeout bounds each generative backend call.
	DefaultBackendTimeout = 60 * time.Second

	// DefaultQueryTimeout bounds each data store query.
	DefaultQueryTimeout = 30 * time.Second

	// DefaultDisclosure prefixes the assistant message of a relaxed answer.
	DefaultDisclosure = "Não encontrei perfis com todos os critérios, então flexibilizei a busca. "
)

// Searcher runs conversational turns: it derives mandatory constraints from
// feedback, drafts a query, enforces the constraints, executes the query and
// relaxes it once when nothing matches.
//
// A Searcher holds no per-conversation state and is safe for concurrent use.
type Searcher struct {
	executor   storage.QueryExecutor
	drafter    *drafting.Engine
	summarizer *summary.Summarizer
	enforcer   *enforce.Enforcer
	monitor    TurnMonitor
	logger     *slog.Logger

	maxRows      int
	windowSize   int
	queryTimeout time.Duration
	disclosure   string

	// collected from options, consumed by NewSearcher
	backendTimeout   time.Duration
	summaryCache     storage.SummaryCache
	summaryThreshold int
	parser           *drafting.ResponseParser
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets the monitor used by ProcessTurn.
func WithMonitor(monitor TurnMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithMaxRows caps the rows kept from a data query.
// Default is DefaultMaxRows.
func WithMaxRows(maxRows int) Option {
	return func(s *Searcher) error {
		if maxRows < 1 {
			return errors.New("max rows must be positive")
		}
		s.maxRows = maxRows
		return nil
	}
}

// WithWindowSize sets how many history turns accompany the new message.
// Default is drafting.DefaultWindowSize.
func WithWindowSize(size int) Option {
	return func(s *Searcher) error {
		if size < 0 {
			return errors.New("window size cannot be negative")
		}
		s.windowSize = size
		return nil
	}
}

// WithBackendTimeout bounds each generative backend call.
// Default is DefaultBackendTimeout. Zero disables the bound.
func WithBackendTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout < 0 {
			return errors.New("backend timeout cannot be negative")
		}
		s.backendTimeout = timeout
		return nil
	}
}

// WithQueryTimeout bounds each data store query.
// Default is DefaultQueryTimeout. Zero disables the bound.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout < 0 {
			return errors.New("query timeout cannot be negative")
		}
		s.queryTimeout = timeout
		return nil
	}
}

// WithSummaryCache memoizes context summaries.
func WithSummaryCache(cache storage.SummaryCache) Option {
	return func(s *Searcher) error {
		s.summaryCache = cache
		return nil
	}
}

// WithSummaryThreshold sets the history length above which summaries are built.
// Default is summary.DefaultThreshold.
func WithSummaryThreshold(threshold int) Option {
	return func(s *Searcher) error {
		if threshold < 0 {
			return errors.New("summary threshold cannot be negative")
		}
		s.summaryThreshold = threshold
		return nil
	}
}

// WithDisclosure replaces the prefix added to relaxed answers.
func WithDisclosure(disclosure string) Option {
	return func(s *Searcher) error {
		s.disclosure = disclosure
		return nil
	}
}

// WithResponseParser replaces the parser for drafted responses.
func WithResponseParser(parser *drafting.ResponseParser) Option {
	return func(s *Searcher) error {
		if parser == nil {
			return errors.New("response parser cannot be nil")
		}
		s.parser = parser
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(generator ai.TextGenerator, executor storage.QueryExecutor, opts ...Option) (*Searcher, error) {
	if generator == nil {
		return nil, ErrTextGeneratorRequired
	}
	if executor == nil {
		return nil, ErrQueryExecutorRequired
	}

	s := &Searcher{
		executor:         executor,
		monitor:          &noopMonitor{},
		logger:           slog.Default(),
		maxRows:          DefaultMaxRows,
		windowSize:       drafting.DefaultWindowSize,
		queryTimeout:     DefaultQueryTimeout,
		disclosure:       DefaultDisclosure,
		backendTimeout:   DefaultBackendTimeout,
		summaryThreshold: summary.DefaultThreshold,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	// Collaborators scope the base logger with their own component.
	base := s.logger
	s.logger = base.With("component", "searcher")

	draftOpts := []drafting.Option{
		drafting.WithLogger(base),
		drafting.WithTimeout(s.backendTimeout),
	}
	if s.parser != nil {
		draftOpts = append(draftOpts, drafting.WithParser(s.parser))
	}
	drafter, err := drafting.NewEngine(generator, draftOpts...)
	if err != nil {
		return nil, err
	}

	summaryOpts := []summary.Option{
		summary.WithLogger(base),
		summary.WithThreshold(s.summaryThreshold),
		summary.WithTimeout(s.backendTimeout),
	}
	if s.summaryCache != nil {
		summaryOpts = append(summaryOpts, summary.WithCache(s.summaryCache))
	}
	summarizer, err := summary.NewSummarizer(generator, summaryOpts...)
	if err != nil {
		return nil, err
	}

	s.drafter = drafter
	s.summarizer = summarizer
	s.enforcer = enforce.NewEnforcer(
		enforce.WithLogger(base),
		enforce.WithRowLimit(s.maxRows),
	)
	return s, nil
}

// turn holds the state owned by a single ProcessTurn call.
type turn struct {
	req         core.TurnRequest
	constraints []core.CriticalFilter
	summary     string
	window      []core.DialogueTurn
	warnings    []error
	monitor     TurnMonitor
}

func (t *turn) warn(err error) {
	t.warnings = append(t.warnings, err)
	t.monitor.Warning(err)
}

// ProcessTurn answers one recruiter message using the searcher's monitor.
func (s *Searcher) ProcessTurn(ctx context.Context, req core.TurnRequest) (*core.SearchResult, error) {
	return s.ProcessTurnWithMonitor(ctx, req, s.monitor)
}

// ProcessTurnWithMonitor answers one recruiter message.
// The monitor receives callbacks at each stage of the turn; nil disables them.
//
// Returned errors are fatal for the turn. Recoverable problems are reported
// through SearchResult.Warnings.
func (s *Searcher) ProcessTurnWithMonitor(ctx context.Context, req core.TurnRequest, monitor TurnMonitor) (*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "search.Searcher.ProcessTurn",
		trace.WithAttributes(
			attribute.Int("history_length", len(req.History)),
			attribute.Int("feedback_count", len(req.Feedback)),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := s.processTurn(ctx, req, monitor)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		monitor.TurnFailed(err, elapsed)
		s.logger.Error("turn failed", "elapsed", elapsed, "err", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows", len(result.Rows)),
		attribute.Int64("total_count", result.TotalCount),
		attribute.Bool("relaxed", result.Relaxed),
		attribute.Int("warnings", len(result.Warnings)),
	)
	monitor.TurnFinished(result, elapsed)
	s.logger.Info("turn finished",
		"rows", len(result.Rows),
		"total", result.TotalCount,
		"relaxed", result.Relaxed,
		"warnings", len(result.Warnings),
		"elapsed", elapsed)
	return result, nil
}

func (s *Searcher) processTurn(ctx context.Context, req core.TurnRequest, monitor TurnMonitor) (*core.SearchResult, error) {
	if err := core.ValidateTurnRequest(&req); err != nil {
		return nil, err
	}
	monitor.TurnStarted(&req)

	t := &turn{req: req, monitor: monitor}

	t.constraints = criteria.Extract(req.Feedback)
	monitor.ConstraintsDerived(t.constraints)
	if len(t.constraints) > 0 {
		s.logger.Debug("derived mandatory constraints", "count", len(t.constraints))
	}

	summaryText, err := s.summarizer.TrySummarize(ctx, req.History, req.Feedback)
	if err != nil {
		t.warn(err)
	}
	t.summary = summaryText
	if summaryText != "" {
		monitor.SummaryProduced(summaryText)
	}

	t.window = drafting.Window(req.History, req.Message, s.windowSize)

	result, err := s.attempt(ctx, t, PhaseInitial, t.window)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		result = s.relax(ctx, t, result)
	}

	result.Warnings = make([]string, 0, len(t.warnings))
	for _, w := range t.warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	return result, nil
}

// attempt drafts, enforces and executes one query for the turn.
func (s *Searcher) attempt(ctx context.Context, t *turn, phase Phase, window []core.DialogueTurn) (*core.SearchResult, error) {
	draft, err := s.drafter.Draft(ctx, drafting.DraftRequest{
		Window:      window,
		Constraints: t.constraints,
		Summary:     t.summary,
		Feedback:    t.req.Feedback,
	})
	if err != nil {
		return nil, err
	}
	t.monitor.DraftProduced(phase, draft)

	report := s.enforcer.Enforce(draft, t.constraints)
	for _, w := range report.Warnings {
		t.warn(w)
	}
	t.monitor.DraftEnforced(phase, report)

	return s.assemble(ctx, t, phase, report.Draft)
}
