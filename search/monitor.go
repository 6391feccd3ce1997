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
	"time"

	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/enforce"
)

// Phase distinguishes the original attempt of a turn from its relaxed retry.
type Phase string

const (
	PhaseInitial Phase = "initial"
	PhaseRelaxed Phase = "relaxed"
)

// TurnMonitor receives callbacks at each stage of a turn.
// Implementations must be safe for concurrent use when the Searcher is.
type TurnMonitor interface {
	TurnStarted(req *core.TurnRequest)
	ConstraintsDerived(filters []core.CriticalFilter)
	SummaryProduced(summary string)
	DraftProduced(phase Phase, draft *core.QueryDraft)
	DraftEnforced(phase Phase, report enforce.Report)
	QueryExecuted(phase Phase, rows int, elapsed time.Duration)
	Relaxing()
	Warning(err error)
	TurnFinished(result *core.SearchResult, elapsed time.Duration)
	TurnFailed(err error, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of TurnMonitor
type noopMonitor struct{}

var _ TurnMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) TurnStarted(_ *core.TurnRequest)                   {}
func (n *noopMonitor) ConstraintsDerived(_ []core.CriticalFilter)        {}
func (n *noopMonitor) SummaryProduced(_ string)                          {}
func (n *noopMonitor) DraftProduced(_ Phase, _ *core.QueryDraft)         {}
func (n *noopMonitor) DraftEnforced(_ Phase, _ enforce.Report)           {}
func (n *noopMonitor) QueryExecuted(_ Phase, _ int, _ time.Duration)     {}
func (n *noopMonitor) Relaxing()                                         {}
func (n *noopMonitor) Warning(_ error)                                   {}
func (n *noopMonitor) TurnFinished(_ *core.SearchResult, _ time.Duration) {}
func (n *noopMonitor) TurnFailed(_ error, _ time.Duration)               {}

// multiMonitor fans callbacks out to several monitors in order.
type multiMonitor []TurnMonitor

var _ TurnMonitor = (multiMonitor)(nil)

// Monitors combines monitors into one. Nil entries are skipped.
func Monitors(monitors ...TurnMonitor) TurnMonitor {
	var m multiMonitor
	for _, mon := range monitors {
		if mon != nil {
			m = append(m, mon)
		}
	}
	if len(m) == 0 {
		return &noopMonitor{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiMonitor) TurnStarted(req *core.TurnRequest) {
	for _, mon := range m {
		mon.TurnStarted(req)
	}
}

func (m multiMonitor) ConstraintsDerived(filters []core.CriticalFilter) {
	for _, mon := range m {
		mon.ConstraintsDerived(filters)
	}
}

func (m multiMonitor) SummaryProduced(summary string) {
	for _, mon := range m {
		mon.SummaryProduced(summary)
	}
}

func (m multiMonitor) DraftProduced(phase Phase, draft *core.QueryDraft) {
	for _, mon := range m {
		mon.DraftProduced(phase, draft)
	}
}

func (m multiMonitor) DraftEnforced(phase Phase, report enforce.Report) {
	for _, mon := range m {
		mon.DraftEnforced(phase, report)
	}
}

func (m multiMonitor) QueryExecuted(phase Phase, rows int, elapsed time.Duration) {
	for _, mon := range m {
		mon.QueryExecuted(phase, rows, elapsed)
	}
}

func (m multiMonitor) Relaxing() {
	for _, mon := range m {
		mon.Relaxing()
	}
}

func (m multiMonitor) Warning(err error) {
	for _, mon := range m {
		mon.Warning(err)
	}
}

func (m multiMonitor) TurnFinished(result *core.SearchResult, elapsed time.Duration) {
	for _, mon := range m {
		mon.TurnFinished(result, elapsed)
	}
}

func (m multiMonitor) TurnFailed(err error, elapsed time.Duration) {
	for _, mon := range m {
		mon.TurnFailed(err, elapsed)
	}
}
