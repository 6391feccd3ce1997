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

package core

import "errors"

// Turn processing errors. Only the fatal kinds abort a turn.
var (
	// ErrBackendResponseUnparsable indicates the generative backend produced
	// no extractable structured payload. Fatal.
	ErrBackendResponseUnparsable = errors.New("backend response unparsable")

	// ErrIncompleteDraft indicates a parsed payload lacks the data query. Fatal.
	ErrIncompleteDraft = errors.New("incomplete query draft")

	// ErrBackendTimeout indicates a backend call exceeded its deadline. Fatal.
	ErrBackendTimeout = errors.New("backend call timed out")

	// ErrBackendUnavailable indicates the generative backend call failed for
	// a reason other than its deadline. Fatal.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrQueryExecutionFailed indicates the validated data query could not be
	// executed. Fatal.
	ErrQueryExecutionFailed = errors.New("query execution failed")

	// ErrConstraintInsertionSkipped indicates the enforcer found no place to
	// insert a mandatory constraint. Recoverable.
	ErrConstraintInsertionSkipped = errors.New("constraint insertion skipped")

	// ErrCountQueryFailed indicates the count query failed and the sample size
	// was used as total. Recoverable.
	ErrCountQueryFailed = errors.New("count query failed")

	// ErrSummarizationFailed indicates context summarization failed and an
	// empty summary was used. Recoverable.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrRelaxationFailed indicates the relaxed retry failed and the original
	// empty result was kept. Recoverable.
	ErrRelaxationFailed = errors.New("relaxation failed")
)

// Validation errors.
var (
	// ErrInvalidTurnRequest indicates a TurnRequest failed validation.
	ErrInvalidTurnRequest = errors.New("invalid turn request")

	// ErrInvalidRole indicates a dialogue turn has an unknown role.
	ErrInvalidRole = errors.New("invalid dialogue role")

	// ErrEmptyMessage indicates the turn message is empty.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// IsFatal reports whether err must abort the turn.
func IsFatal(err error) bool {
	return errors.Is(err, ErrBackendResponseUnparsable) ||
		errors.Is(err, ErrIncompleteDraft) ||
		errors.Is(err, ErrBackendTimeout) ||
		errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, ErrQueryExecutionFailed)
}
