package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentionsRelaxation(t *testing.T) {
	tests := []struct {
		message  string
		expected bool
	}{
		{"Flexibilizei os critérios para encontrar perfis.", true},
		{"Os critérios foram FLEXIBILIZADOS.", true},
		{"Ampliei a busca para todo o Brasil.", true},
		{"Afrouxei o filtro de senioridade.", true},
		{"I relaxed the location filter.", true},
		{"We broadened the search, here are the results.", true},
		{"Encontrei 3 desenvolvedores backend.", false},
		{"Here are the matching profiles.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, mentionsRelaxation(tt.message))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"sao", "paulo", "e", "otimo"}, tokenize("São Paulo, é ótimo!"))
	assert.Empty(t, tokenize("  ... !!! "))
}
