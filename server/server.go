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

// Package server exposes the turn engine and the export helpers over HTTP.
//
// Endpoints:
//
//	POST /v1/search/turn    - process one conversational turn
//	POST /v1/export/csv     - render rows and feedback as a CSV attachment
//	POST /v1/export/ticket  - hand rows and feedback to the ticket tracker
//	GET  /healthz           - liveness
//	GET  /metrics           - Prometheus metrics
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/export"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ErrTurnProcessorRequired is returned when no turn processor is provided.
var ErrTurnProcessorRequired = errors.New("turn processor required")

// TurnProcessor answers one conversational turn.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req core.TurnRequest) (*core.SearchResult, error)
}

// Server routes HTTP requests to the turn processor.
type Server struct {
	router    *gin.Engine
	processor TurnProcessor
	exporter  *export.Exporter
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "http-server")
	}
}

// WithExporter enables POST /v1/export/ticket.
func WithExporter(exporter *export.Exporter) Option {
	return func(s *Server) {
		s.exporter = exporter
	}
}

// WithGatherer serves metrics from gatherer at /metrics. A nil gatherer
// disables the endpoint. Default is prometheus.DefaultGatherer.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// New creates a server around processor.
func New(processor TurnProcessor, opts ...Option) (*Server, error) {
	if processor == nil {
		return nil, ErrTurnProcessorRequired
	}
	s := &Server{
		processor: processor,
		gatherer:  prometheus.DefaultGatherer,
		logger:    slog.Default().With("component", "http-server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("scout"))
	router.Use(s.requestLogger())

	router.GET("/healthz", s.handleHealth)
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	v1.POST("/search/turn", s.handleTurn)
	v1.POST("/export/csv", s.handleExportCSV)
	if s.exporter != nil {
		v1.POST("/export/ticket", s.handleExportTicket)
	}

	s.router = router
	return s, nil
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
