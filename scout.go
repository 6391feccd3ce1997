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

// Package scout wires the conversational candidate search engine from a
// configuration: the generative backend, the profiles dataset, the summary
// cache and the searcher.
package scout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/ai/openai"
	"github.com/poiesic/scout/config"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/search"
	"github.com/poiesic/scout/storage"
	"github.com/poiesic/scout/storage/badger"
	"github.com/poiesic/scout/storage/sqlite"
)

// Engine owns the resources behind a Searcher.
type Engine struct {
	dataset  storage.Dataset
	cache    storage.SummaryCache
	provider ai.AIProvider
	searcher *search.Searcher
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	provider   ai.AIProvider
	logger     *slog.Logger
	monitor    search.TurnMonitor
	searchOpts []search.Option
}

// WithProvider replaces the OpenAI-compatible provider built from config.
// The engine takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMonitor sets the searcher's turn monitor.
func WithMonitor(monitor search.TurnMonitor) Option {
	return func(o *options) {
		o.monitor = monitor
	}
}

// WithSearchOptions appends searcher options after those derived from config.
func WithSearchOptions(opts ...search.Option) Option {
	return func(o *options) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// New opens the dataset and cache named by cfg and builds a searcher.
// A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	e := &Engine{logger: o.logger.With("component", "engine")}

	dataset, err := openDataset(cfg.Dataset, o.logger)
	if err != nil {
		return nil, err
	}
	e.dataset = dataset

	if cfg.Cache.Enabled {
		backend, err := badger.OpenBackend(cfg.Cache.Path, cfg.Cache.Path == "", o.logger)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to open summary cache: %w", err)
		}
		cache, err := badger.NewSummaryCache(backend,
			badger.WithTTL(cfg.Cache.TTL),
			badger.WithCacheLogger(o.logger),
			badger.WithOwnedBackend(),
		)
		if err != nil {
			backend.Close()
			e.Close()
			return nil, err
		}
		e.cache = cache
	}

	e.provider = o.provider
	if e.provider == nil {
		provider, err := openai.NewProvider(cfg.AIConfig(), openai.WithLogger(o.logger))
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		e.provider = provider
	}

	searchOpts := append(cfg.SearchOptions(), search.WithLogger(o.logger))
	if e.cache != nil {
		searchOpts = append(searchOpts, search.WithSummaryCache(e.cache))
	}
	if o.monitor != nil {
		searchOpts = append(searchOpts, search.WithMonitor(o.monitor))
	}
	searchOpts = append(searchOpts, o.searchOpts...)

	searcher, err := search.NewSearcher(e.provider.TextGenerator(), e.dataset, searchOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.searcher = searcher
	return e, nil
}

func openDataset(cfg config.DatasetConfig, logger *slog.Logger) (storage.Dataset, error) {
	var dataset storage.Dataset
	var err error
	if cfg.Path == "" {
		dataset, err = sqlite.OpenMemory(sqlite.WithLogger(logger))
	} else {
		dataset, err = sqlite.Open(cfg.Path, sqlite.WithLogger(logger))
	}
	if err != nil {
		return nil, err
	}

	if cfg.ImportCSV != "" {
		f, err := os.Open(cfg.ImportCSV)
		if err != nil {
			dataset.Close()
			return nil, fmt.Errorf("failed to open profiles CSV: %w", err)
		}
		defer f.Close()
		n, err := dataset.ImportCSV(context.Background(), f)
		if err != nil {
			dataset.Close()
			return nil, fmt.Errorf("failed to import profiles CSV: %w", err)
		}
		logger.Info("imported profiles", "file", cfg.ImportCSV, "rows", n)
	}
	return dataset, nil
}

// ProcessTurn answers one conversational turn.
func (e *Engine) ProcessTurn(ctx context.Context, req core.TurnRequest) (*core.SearchResult, error) {
	return e.searcher.ProcessTurn(ctx, req)
}

// Searcher returns the engine's searcher.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Dataset returns the profiles dataset.
func (e *Engine) Dataset() storage.Dataset {
	return e.dataset
}

// Close releases the provider, cache and dataset. It reports every error.
func (e *Engine) Close() error {
	var errs []error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing summary cache", "err", err)
			errs = append(errs, err)
		}
	}
	if e.dataset != nil {
		if err := e.dataset.Close(); err != nil {
			e.logger.Error("error closing dataset", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
