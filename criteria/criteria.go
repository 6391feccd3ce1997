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

package criteria

import (
	"strings"
	"unicode"

	"github.com/poiesic/scout/core"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SeniorThreshold is the number of too-senior negative reasons required
// before seniority constraints are emitted.
const SeniorThreshold = 2

var (
	seniorFamily = []string{
		"senior",
		"experiente",
		"experiencia",
		"experience",
		"anos",
		"years",
		"overqualified",
		"superqualificad",
	}

	juniorFamily = []string{
		"junior",
		"inexperiente",
		"inexperienced",
		"estagi",
		"intern",
		"sem experiencia",
		"pouca experiencia",
		"no experience",
		"little experience",
	}

	// lackOfExperience phrases contain senior tokens but mean the opposite.
	lackOfExperience = []string{
		"inexperien",
		"sem experiencia",
		"pouca experiencia",
		"falta de experiencia",
		"no experience",
		"little experience",
		"lack of experience",
	}
)

// Constraint names.
const (
	NameSeniorityLevel = "seniority_level_low_tiers"
	NameSeniorityRank  = "seniority_rank_max_2"
)

// SeniorityFilters returns the constraint pair emitted when candidates are
// repeatedly rejected as too senior, in emission order.
func SeniorityFilters() []core.CriticalFilter {
	return []core.CriticalFilter{
		{
			Name:      NameSeniorityLevel,
			Directive: "Restrict seniority_level to the two lowest tiers: seniority_level IN ('intern', 'junior').",
			Keyword:   "seniority_level",
			Predicate: "seniority_level IN ('intern', 'junior')",
		},
		{
			Name:      NameSeniorityRank,
			Directive: "Restrict seniority_rank to 2 or less: seniority_rank <= 2.",
			Keyword:   "seniority_rank",
			Predicate: "seniority_rank <= 2",
		},
	}
}

// Signals counts the negative reasons matching each keyword family.
type Signals struct {
	Negatives  int
	TooSenior  int
	TooJunior  int
	Positives  int
	WithReason int
}

// Tally scans the feedback set and counts keyword family matches among the
// negative entries. A reason may match both families.
func Tally(feedback []core.ProfileFeedback) Signals {
	var s Signals
	for _, fb := range feedback {
		if strings.TrimSpace(fb.Reason) != "" {
			s.WithReason++
		}
		if fb.Interesting {
			s.Positives++
			continue
		}
		s.Negatives++
		reason := Fold(fb.Reason)
		if reason == "" {
			continue
		}
		if containsAny(stripAll(reason, lackOfExperience), seniorFamily) {
			s.TooSenior++
		}
		if containsAny(reason, juniorFamily) {
			s.TooJunior++
		}
	}
	return s
}

// Extract returns the mandatory constraints implied by the feedback set.
// The result is nil when no constraint applies.
func Extract(feedback []core.ProfileFeedback) []core.CriticalFilter {
	if Tally(feedback).TooSenior >= SeniorThreshold {
		return SeniorityFilters()
	}
	return nil
}

// Fold lower-cases s and strips combining marks, so "Sênior" and "senior"
// compare equal.
func Fold(s string) string {
	// Transformers carry state; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func stripAll(s string, phrases []string) string {
	for _, p := range phrases {
		s = strings.ReplaceAll(s, p, " ")
	}
	return s
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
