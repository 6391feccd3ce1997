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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/scout/core"
)

// countKeys are column names checked, in order, when a count query returns
// more than one column.
var countKeys = []string{"total", "count", "count(*)", "total_count", "n"}

// assemble executes the enforced draft and builds the turn result.
// Data query failures are fatal; count query failures fall back to the
// number of rows kept.
func (s *Searcher) assemble(ctx context.Context, t *turn, phase Phase, draft *core.QueryDraft) (*core.SearchResult, error) {
	start := time.Now()
	rows, err := s.execute(ctx, draft.DataQuery)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("data query failed", "phase", phase, "query", draft.DataQuery, "err", err)
		return nil, err
	}
	if len(rows) > s.maxRows {
		rows = rows[:s.maxRows]
	}
	t.monitor.QueryExecuted(phase, len(rows), elapsed)
	s.logger.Debug("data query executed", "phase", phase, "rows", len(rows), "elapsed", elapsed)

	result := &core.SearchResult{
		DataQuery:             draft.DataQuery,
		Explanation:           draft.Explanation,
		Rows:                  rows,
		TotalCount:            int64(len(rows)),
		AssistantMessage:      draft.AssistantMessage,
		SearchCriteriaSummary: draft.SearchCriteriaSummary,
		Relaxed:               phase == PhaseRelaxed,
	}

	// An empty sample either ends the turn or triggers relaxation, and the
	// count of nothing is zero. Skip the extra round trip.
	if draft.CountQuery == "" || len(rows) == 0 {
		return result, nil
	}

	total, err := s.count(ctx, draft.CountQuery)
	if err != nil {
		t.warn(err)
		return result, nil
	}
	result.TotalCount = total
	return result, nil
}

func (s *Searcher) execute(ctx context.Context, query string) ([]core.Record, error) {
	callCtx := ctx
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	rows, err := s.executor.Execute(callCtx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: data query after %v: %w", core.ErrBackendTimeout, s.queryTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", core.ErrQueryExecutionFailed, err)
	}
	return rows, nil
}

func (s *Searcher) count(ctx context.Context, query string) (int64, error) {
	rows, err := s.execute(ctx, query)
	if err != nil {
		s.logger.Warn("count query failed, using sample size", "query", query, "err", err)
		return 0, fmt.Errorf("%w: %w", core.ErrCountQueryFailed, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: count query returned no rows", core.ErrCountQueryFailed)
	}
	total, err := scalar(rows[0])
	if err != nil {
		s.logger.Warn("count query result not numeric, using sample size", "query", query, "err", err)
		return 0, fmt.Errorf("%w: %w", core.ErrCountQueryFailed, err)
	}
	return total, nil
}

// scalar extracts the count from the first row of a count query.
func scalar(row core.Record) (int64, error) {
	if len(row) == 1 {
		for _, v := range row {
			return toInt64(v)
		}
	}
	for _, key := range countKeys {
		for col, v := range row {
			if strings.EqualFold(col, key) {
				return toInt64(v)
			}
		}
	}
	return 0, fmt.Errorf("no count column among %d columns", len(row))
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("count is not finite: %v", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	case nil:
		return 0, errors.New("count is null")
	default:
		return 0, fmt.Errorf("unsupported count type %T", v)
	}
}
