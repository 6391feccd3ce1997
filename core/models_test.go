package core

import (
	"fmt"
	"testing"
)

func TestRecord_String(t *testing.T) {
	rec := Record{
		"id":             int64(42),
		"full_name":      "Ana Souza",
		"headline":       []byte("Backend Developer"),
		"seniority_rank": nil,
	}

	tests := []struct {
		name   string
		column string
		want   string
	}{
		{name: "integer column", column: "id", want: "42"},
		{name: "string column", column: "full_name", want: "Ana Souza"},
		{name: "bytes column", column: "headline", want: "Backend Developer"},
		{name: "null column", column: "seniority_rank", want: ""},
		{name: "missing column", column: "company", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.String(tt.column); got != tt.want {
				t.Errorf("Record.String(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}

	if got := rec.ID(); got != "42" {
		t.Errorf("Record.ID() = %q, want %q", got, "42")
	}
}

func TestQueryDraft_Clone(t *testing.T) {
	var nilDraft *QueryDraft
	if nilDraft.Clone() != nil {
		t.Error("Clone() of nil draft should be nil")
	}

	d := &QueryDraft{DataQuery: "SELECT id FROM profiles", AssistantMessage: "hi"}
	c := d.Clone()
	c.DataQuery = "changed"
	if d.DataQuery != "SELECT id FROM profiles" {
		t.Errorf("Clone() shares state with original: %q", d.DataQuery)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: ErrBackendResponseUnparsable, want: true},
		{err: fmt.Errorf("%w: no json", ErrIncompleteDraft), want: true},
		{err: ErrBackendTimeout, want: true},
		{err: ErrBackendUnavailable, want: true},
		{err: ErrQueryExecutionFailed, want: true},
		{err: ErrCountQueryFailed, want: false},
		{err: ErrSummarizationFailed, want: false},
		{err: ErrRelaxationFailed, want: false},
		{err: ErrConstraintInsertionSkipped, want: false},
		{err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
