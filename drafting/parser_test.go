package drafting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseParser_Parse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantStrategy string
		wantQuery    string
	}{
		{
			name:         "plain object",
			raw:          `{"dataQuery": "SELECT id FROM profiles"}`,
			wantStrategy: "strict",
			wantQuery:    "SELECT id FROM profiles",
		},
		{
			name:         "code fence",
			raw:          "```json\n{\"dataQuery\": \"SELECT id FROM profiles\"}\n```",
			wantStrategy: "strict",
			wantQuery:    "SELECT id FROM profiles",
		},
		{
			name:         "prose around object",
			raw:          "Claro! Aqui está a consulta:\n{\"dataQuery\": \"SELECT id FROM profiles WHERE note = '}'\", \"explanation\": \"x\"}\nEspero que ajude.",
			wantStrategy: "brace-span",
			wantQuery:    "SELECT id FROM profiles WHERE note = '}'",
		},
		{
			name:         "nested braces",
			raw:          `Result: {"dataQuery": "SELECT id FROM profiles", "meta": {"k": 1}} done`,
			wantStrategy: "brace-span",
			wantQuery:    "SELECT id FROM profiles",
		},
		{
			name:         "unbalanced decoy before object",
			raw:          "Note {not json} then {\"dataQuery\": \"SELECT 1\"}",
			wantStrategy: "brace-span",
			wantQuery:    "SELECT 1",
		},
		{
			name:         "raw newline in string",
			raw:          "{\"dataQuery\": \"SELECT id\nFROM profiles\"}",
			wantStrategy: "strict",
			wantQuery:    "SELECT id\nFROM profiles",
		},
		{
			name:         "trailing comma",
			raw:          `{"dataQuery": "SELECT 1", "explanation": "x",}`,
			wantStrategy: "strict",
			wantQuery:    "SELECT 1",
		},
	}

	parser := DefaultResponseParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, strategy, err := parser.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrategy, strategy)

			var obj map[string]any
			require.NoError(t, json.Unmarshal(payload, &obj))
			assert.Equal(t, tt.wantQuery, obj["dataQuery"])
		})
	}
}

func TestResponseParser_Unparsable(t *testing.T) {
	tests := []string{
		"",
		"I could not build a query for that.",
		"{ this is not json at all",
		"[1, 2, 3]",
		"null",
	}

	parser := DefaultResponseParser()
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, _, err := parser.Parse(raw)
			assert.Error(t, err)
		})
	}
}

func TestResponseParser_NoStrategies(t *testing.T) {
	_, _, err := NewResponseParser().Parse(`{"dataQuery": "SELECT 1"}`)
	assert.Error(t, err)
}

type fixedStrategy struct{ payload string }

func (f fixedStrategy) Name() string { return "fixed" }
func (f fixedStrategy) Extract(string) ([]byte, error) {
	return []byte(f.payload), nil
}

func TestResponseParser_CustomStrategyOrder(t *testing.T) {
	parser := NewResponseParser(StrictStrategy{}, fixedStrategy{payload: `{"dataQuery": "SELECT 2"}`})

	_, strategy, err := parser.Parse(`{"dataQuery": "SELECT 1"}`)
	require.NoError(t, err)
	assert.Equal(t, "strict", strategy)

	payload, strategy, err := parser.Parse("no json here")
	require.NoError(t, err)
	assert.Equal(t, "fixed", strategy)
	assert.JSONEq(t, `{"dataQuery": "SELECT 2"}`, string(payload))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1}  `))
}
