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

// Package enforce guarantees that drafted queries carry the mandatory
// constraints before they are executed.
//
// Enforcement is a textual patch over well-formed SQL, not a parser. A
// constraint counts as present when its keyword appears, case-insensitively
// and outside literals and comments, in the conditions of the first
// top-level WHERE clause. Mentions in the select list or ORDER BY do not
// count. Missing predicates are spliced into that clause as
//
//	WHERE (<predicate>) AND (<original conditions>) ORDER BY ...
//
// A query without a WHERE clause is left unmodified and the skip is reported
// as core.ErrConstraintInsertionSkipped.
//
// With a row limit configured, the outermost LIMIT of the data query is
// clamped to it, or appended when the draft has none.
package enforce

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/scout/core"
)

// clauseTerminators end the conditions of a WHERE clause.
var clauseTerminators = []string{
	"GROUP BY", "HAVING", "WINDOW", "ORDER BY", "LIMIT", "OFFSET",
	"UNION", "INTERSECT", "EXCEPT",
}

// Report describes what enforcement changed.
type Report struct {
	// Draft is the enforced copy of the input draft.
	Draft *core.QueryDraft
	// Inserted names the constraints spliced into the data query.
	Inserted []string
	// Present names the constraints already expressed by the data query.
	Present []string
	// IdentifierAdded reports whether the id column was added to the select list.
	IdentifierAdded bool
	// LimitClamped reports whether the data query's LIMIT was added or lowered.
	LimitClamped bool
	// Warnings holds recoverable problems, each wrapping
	// core.ErrConstraintInsertionSkipped.
	Warnings []error
}

// Enforcer patches drafts so they satisfy mandatory constraints.
// It holds no mutable state and is safe for concurrent use.
type Enforcer struct {
	rowLimit int
	logger   *slog.Logger
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enforcer) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "enforcer")
	}
}

// WithRowLimit bounds the rows a data query may return. Zero, the default,
// leaves LIMIT clauses untouched.
func WithRowLimit(limit int) Option {
	return func(e *Enforcer) {
		if limit > 0 {
			e.rowLimit = limit
		}
	}
}

// NewEnforcer creates an enforcer.
func NewEnforcer(opts ...Option) *Enforcer {
	e := &Enforcer{logger: slog.Default().With("component", "enforcer")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enforce returns a copy of draft whose data query, and count query when
// present, include every filter, and whose data query selects the
// identifier column. The input draft is not modified.
func (e *Enforcer) Enforce(draft *core.QueryDraft, filters []core.CriticalFilter) Report {
	out := draft.Clone()
	if out == nil {
		out = &core.QueryDraft{}
	}
	report := Report{Draft: out}

	var inserted, present []string
	var err error
	out.DataQuery, inserted, present, err = applyFilters(out.DataQuery, filters)
	report.Inserted = inserted
	report.Present = present
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Errorf("data query: %w", err))
	}

	if out.CountQuery != "" {
		out.CountQuery, _, _, err = applyFilters(out.CountQuery, filters)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Errorf("count query: %w", err))
		}
	}

	out.DataQuery, report.IdentifierAdded = ensureIdentifier(out.DataQuery)
	out.DataQuery, report.LimitClamped = clampLimit(out.DataQuery, e.rowLimit)

	for _, w := range report.Warnings {
		e.logger.Warn("constraint insertion skipped", "err", w)
	}
	if len(report.Inserted) > 0 || report.IdentifierAdded || report.LimitClamped {
		e.logger.Info("patched draft",
			"inserted", report.Inserted,
			"identifier_added", report.IdentifierAdded,
			"limit_clamped", report.LimitClamped)
	}
	return report
}

// applyFilters splices the filters missing from the conditions of query's
// first top-level WHERE clause into that clause.
func applyFilters(query string, filters []core.CriticalFilter) (string, []string, []string, error) {
	if len(filters) == 0 {
		return query, nil, nil, nil
	}

	m := mask(query)
	where, _ := findTopLevel(m, 0, "WHERE")
	condStart, condEnd := len(query), len(query)
	if where >= 0 {
		condStart = where + len("WHERE")
		if end, _ := findTopLevel(m, condStart, clauseTerminators...); end >= 0 {
			condEnd = end
		}
	}

	var missing []core.CriticalFilter
	var inserted, present []string
	for _, f := range filters {
		if f.Keyword != "" && containsWord(m[condStart:condEnd], strings.ToUpper(f.Keyword)) {
			present = append(present, f.Name)
			continue
		}
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return query, nil, present, nil
	}

	if where < 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.Name
		}
		return query, nil, present, fmt.Errorf("%w: no WHERE clause for %s",
			core.ErrConstraintInsertionSkipped, strings.Join(names, ", "))
	}

	// A trailing semicolon stays outside the group.
	conditions := strings.TrimSpace(query[condStart:condEnd])
	tail := query[condEnd:]
	if condEnd == len(query) && strings.HasSuffix(conditions, ";") {
		conditions = strings.TrimSpace(strings.TrimSuffix(conditions, ";"))
		tail = ";"
	}

	var b strings.Builder
	b.WriteString(query[:where])
	b.WriteString("WHERE ")
	for _, f := range missing {
		b.WriteString("(")
		b.WriteString(f.Predicate)
		b.WriteString(") AND ")
		inserted = append(inserted, f.Name)
	}
	b.WriteString("(")
	b.WriteString(conditions)
	b.WriteString(")")
	if tail != "" && tail != ";" {
		b.WriteString(" ")
		tail = strings.TrimLeft(tail, " \t\r\n")
	}
	b.WriteString(tail)
	return b.String(), inserted, present, nil
}

// ensureIdentifier adds the identifier column to the outermost select list
// unless it already selects it or uses a star.
func ensureIdentifier(query string) (string, bool) {
	m := mask(query)
	sel, _ := findTopLevel(m, 0, "SELECT")
	if sel < 0 {
		return query, false
	}
	listStart := sel + len("SELECT")
	for {
		j := listStart
		for j < len(m) && isSpace(m[j]) {
			j++
		}
		if wordAt(m, j, "DISTINCT") {
			listStart = j + len("DISTINCT")
			continue
		}
		if wordAt(m, j, "ALL") {
			listStart = j + len("ALL")
			continue
		}
		break
	}
	listEnd := len(m)
	if from, _ := findTopLevel(m, listStart, "FROM"); from >= 0 {
		listEnd = from
	}

	if selectsIdentifier(m[listStart:listEnd]) {
		return query, false
	}
	return query[:listStart] + " " + core.IdentifierColumn + "," + query[listStart:], true
}

// selectsIdentifier reports whether a masked select list contains a star or
// an item that is, or is aliased as, the identifier column.
func selectsIdentifier(list string) bool {
	ident := strings.ToUpper(core.IdentifierColumn)
	for _, item := range splitTopLevel(list) {
		item = strings.TrimSpace(item)
		if item == "*" || strings.HasSuffix(item, ".*") {
			return true
		}
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if i := strings.LastIndexByte(last, '.'); i >= 0 {
			last = last[i+1:]
		}
		if last == ident {
			return true
		}
	}
	return false
}

func splitTopLevel(list string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, list[start:])
}

// clampLimit lowers the outermost LIMIT of query to limit, or appends one
// when the query has none. A LIMIT that is not a plain integer is kept.
func clampLimit(query string, limit int) (string, bool) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return query, false
	}
	m := mask(query)
	at, _ := findTopLevel(m, 0, "LIMIT")
	if at < 0 {
		return appendLimit(query, m, limit), true
	}

	start, end := numberAt(m, at+len("LIMIT"))
	if start == end {
		return query, false
	}
	// SQLite also accepts LIMIT <offset>, <count>.
	j := end
	for j < len(m) && isSpace(m[j]) {
		j++
	}
	if j < len(m) && m[j] == ',' {
		start, end = numberAt(m, j+1)
		if start == end {
			return query, false
		}
	}

	n, err := strconv.Atoi(query[start:end])
	if err == nil && n <= limit {
		return query, false
	}
	return query[:start] + strconv.Itoa(limit) + query[end:], true
}

// numberAt returns the span of the unsigned integer that follows optional
// whitespace at i, or an empty span.
func numberAt(m string, i int) (int, int) {
	for i < len(m) && isSpace(m[i]) {
		i++
	}
	start := i
	for i < len(m) && m[i] >= '0' && m[i] <= '9' {
		i++
	}
	if i < len(m) && isIdent(m[i]) {
		return start, start
	}
	return start, i
}

// appendLimit adds a LIMIT clause before any trailing semicolon. A trailing
// line comment on the last line pushes the clause onto its own line.
func appendLimit(query, m string, limit int) string {
	body := strings.TrimRight(query, " \t\r\n")
	tail := ""
	if strings.HasSuffix(body, ";") && strings.HasSuffix(strings.TrimRight(m, " \t\r\n"), ";") {
		body = strings.TrimRight(strings.TrimSuffix(body, ";"), " \t\r\n")
		tail = ";"
	}
	sep := " "
	lineStart := strings.LastIndexByte(body, '\n') + 1
	if strings.Contains(body[lineStart:], "--") && !strings.Contains(m[lineStart:len(body)], "--") {
		sep = "\n"
	}
	return body + sep + "LIMIT " + strconv.Itoa(limit) + tail
}
