package drafting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid unchanged", `{"a": "b", "c": [1, 2]}`, `{"a": "b", "c": [1, 2]}`},
		{"missing opening quote", `{dataQuery": "SELECT 1"}`, `{"dataQuery": "SELECT 1"}`},
		{"missing opening quote after comma", `{"a": "b", explanation": "x"}`, `{"a": "b", "explanation": "x"}`},
		{"bare key", `{dataQuery: "SELECT 1"}`, `{"dataQuery": "SELECT 1"}`},
		{"trailing comma object", `{"a": 1,}`, `{"a": 1}`},
		{"trailing comma array", `{"a": [1, 2, ]}`, `{"a": [1, 2 ]}`},
		{"newline in string", "{\"q\": \"SELECT\n1\"}", `{"q": "SELECT\n1"}`},
		{"tab in string", "{\"q\": \"a\tb\"}", `{"q": "a\tb"}`},
		{"escaped quote kept", `{"q": "say \"hi\", ok"}`, `{"q": "say \"hi\", ok"}`},
		{"literals untouched", `{"a": true, "b": null, "c": [false, 1]}`, `{"a": true, "b": null, "c": [false, 1]}`},
		{"comma inside string untouched", `{"q": "a, b}"}`, `{"q": "a, b}"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), "repaired output should be valid JSON: %s", got)
		})
	}
}
