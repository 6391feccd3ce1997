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
	"strings"

	"github.com/poiesic/scout/criteria"
)

// relaxationStems are word prefixes, accent-folded, that signal a message
// already tells the recruiter the search was loosened.
var relaxationStems = []string{
	"flexibiliz",
	"relax",
	"ampli",
	"afroux",
	"loosen",
	"broaden",
	"widen",
	"expand",
}

// tokenize splits text into accent-folded, lower-case words without
// surrounding punctuation.
func tokenize(text string) []string {
	words := strings.Fields(criteria.Fold(text))
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?;:'\"-()[]{}…")
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// mentionsRelaxation reports whether message already discloses that the
// criteria were loosened.
func mentionsRelaxation(message string) bool {
	for _, token := range tokenize(message) {
		for _, stem := range relaxationStems {
			if strings.HasPrefix(token, stem) {
				return true
			}
		}
	}
	return false
}
