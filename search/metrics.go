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
	"errors"
	"sync"
	"time"

	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/enforce"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsMonitor records turn metrics in Prometheus.
type MetricsMonitor struct {
	noopMonitor

	turns         *prometheus.CounterVec
	turnDuration  prometheus.Histogram
	relaxations   prometheus.Counter
	warnings      *prometheus.CounterVec
	insertions    prometheus.Counter
	rowsReturned  prometheus.Histogram
	queryDuration *prometheus.HistogramVec
}

var _ TurnMonitor = (*MetricsMonitor)(nil)

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *MetricsMonitor
)

// DefaultMetricsMonitor returns the monitor registered with the default
// Prometheus registerer, creating it on first use.
func DefaultMetricsMonitor() *MetricsMonitor {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetricsMonitor(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetricsMonitor registers the turn metrics with reg.
// Registering twice with the same registerer panics.
func NewMetricsMonitor(reg prometheus.Registerer) *MetricsMonitor {
	factory := promauto.With(reg)
	return &MetricsMonitor{
		// Labels: outcome (success, relaxed, empty, error)
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "turns_total",
			Help:      "Total number of conversational turns processed.",
		}, []string{"outcome"}),
		turnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "turn_duration_seconds",
			Help:      "Duration of a conversational turn in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),
		relaxations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "relaxations_total",
			Help:      "Total number of relaxed retries after an empty result.",
		}),
		// Labels: kind (count_query, summary, constraint_insertion, relaxation, other)
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "warnings_total",
			Help:      "Total number of recoverable errors by kind.",
		}, []string{"kind"}),
		insertions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "constraint_insertions_total",
			Help:      "Total number of mandatory constraints spliced into drafted queries.",
		}),
		rowsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "rows_returned",
			Help:      "Rows returned per turn.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		// Labels: phase (initial, relaxed)
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scout",
			Subsystem: "search",
			Name:      "query_duration_seconds",
			Help:      "Duration of data query execution in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
	}
}

// DraftEnforced counts spliced constraints.
func (m *MetricsMonitor) DraftEnforced(_ Phase, report enforce.Report) {
	m.insertions.Add(float64(len(report.Inserted)))
}

// QueryExecuted observes query latency.
func (m *MetricsMonitor) QueryExecuted(phase Phase, _ int, elapsed time.Duration) {
	m.queryDuration.WithLabelValues(string(phase)).Observe(elapsed.Seconds())
}

// Relaxing counts relaxed retries.
func (m *MetricsMonitor) Relaxing() {
	m.relaxations.Inc()
}

// Warning counts recoverable errors by kind.
func (m *MetricsMonitor) Warning(err error) {
	m.warnings.WithLabelValues(warningKind(err)).Inc()
}

// TurnFinished records the outcome of a successful turn.
func (m *MetricsMonitor) TurnFinished(result *core.SearchResult, elapsed time.Duration) {
	outcome := "success"
	switch {
	case len(result.Rows) == 0:
		outcome = "empty"
	case result.Relaxed:
		outcome = "relaxed"
	}
	m.turns.WithLabelValues(outcome).Inc()
	m.turnDuration.Observe(elapsed.Seconds())
	m.rowsReturned.Observe(float64(len(result.Rows)))
}

// TurnFailed records a failed turn.
func (m *MetricsMonitor) TurnFailed(_ error, elapsed time.Duration) {
	m.turns.WithLabelValues("error").Inc()
	m.turnDuration.Observe(elapsed.Seconds())
}

func warningKind(err error) string {
	switch {
	case errors.Is(err, core.ErrRelaxationFailed):
		return "relaxation"
	case errors.Is(err, core.ErrCountQueryFailed):
		return "count_query"
	case errors.Is(err, core.ErrSummarizationFailed):
		return "summary"
	case errors.Is(err, core.ErrConstraintInsertionSkipped):
		return "constraint_insertion"
	default:
		return "other"
	}
}
