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

import "fmt"

// IdentifierColumn is the stable record key every returned row carries.
// Feedback is correlated with rows across turns through this column.
const IdentifierColumn = "id"

// Role identifies the author of a dialogue turn.
type Role string

const (
	// RoleUser is the recruiter.
	RoleUser Role = "user"
	// RoleAssistant is the search assistant.
	RoleAssistant Role = "assistant"
)

// DialogueTurn is a single message in a conversation.
// Turns are ordered and append-only within a conversation. Assistant turns
// may be empty because a draft's assistant message is optional.
type DialogueTurn struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required_if=Role user"`
}

// ProfileFeedback is the recruiter's judgement of one profile.
// Several entries may exist for the same ProfileID; later entries are
// additional signal, not replacements.
type ProfileFeedback struct {
	ProfileID   string `json:"profileId" validate:"required"`
	ProfileName string `json:"profileName"`
	Interesting bool   `json:"interesting"`
	Reason      string `json:"reason,omitempty"`
}

// CriticalFilter is a mandatory constraint derived from feedback.
type CriticalFilter struct {
	// Name identifies the constraint in logs and reports.
	Name string
	// Directive is the human-readable instruction given to the drafting backend.
	Directive string
	// Keyword is looked up case-insensitively in a query to decide whether the
	// constraint is already expressed.
	Keyword string
	// Predicate is the canonical condition spliced into a query that lacks it.
	Predicate string
}

// QueryDraft is the structured output of one drafting call.
type QueryDraft struct {
	DataQuery             string `json:"dataQuery"`
	CountQuery            string `json:"countQuery,omitempty"`
	Explanation           string `json:"explanation"`
	AssistantMessage      string `json:"assistantMessage"`
	SearchCriteriaSummary string `json:"searchCriteriaSummary"`
}

// Clone returns a copy of the draft.
func (d *QueryDraft) Clone() *QueryDraft {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// Record is one row returned by the data store, keyed by column name.
type Record map[string]any

// ID returns the stable identifier of the record as a string, or "" when
// the row does not carry one.
func (r Record) ID() string {
	return r.String(IdentifierColumn)
}

// String returns the named column rendered as a string.
func (r Record) String(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// SearchResult is the answer to one conversational turn.
type SearchResult struct {
	DataQuery             string   `json:"dataQuery"`
	Explanation           string   `json:"explanation"`
	Rows                  []Record `json:"rows"`
	TotalCount            int64    `json:"totalCount"`
	AssistantMessage      string   `json:"assistantMessage"`
	SearchCriteriaSummary string   `json:"searchCriteriaSummary"`
	// Relaxed reports whether the rows come from a loosened query.
	Relaxed bool `json:"relaxed"`
	// Warnings lists recoverable conditions hit while answering the turn.
	Warnings []string `json:"warnings,omitempty"`
}

// TurnRequest is the input of one conversational turn.
type TurnRequest struct {
	Message  string            `json:"message" validate:"required"`
	History  []DialogueTurn    `json:"history" validate:"dive"`
	Feedback []ProfileFeedback `json:"feedback" validate:"dive"`
}

// ExportRecord is the flat row handed to the export collaborator.
type ExportRecord struct {
	Name          string `json:"name"`
	ProfileURL    string `json:"profileUrl"`
	Headline      string `json:"headline"`
	Company       string `json:"company"`
	FeedbackLabel string `json:"feedbackLabel"`
	Reason        string `json:"reason"`
}
