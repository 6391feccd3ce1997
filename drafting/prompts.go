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

package drafting

import (
	"fmt"
	"strings"

	"github.com/poiesic/scout/core"
)

const domainDescription = `You are a search assistant that helps a recruiter find candidate profiles. You translate the conversation into a read-only SQLite query over a single table.

Table: profiles
- id TEXT: stable profile identifier. Always select it.
- full_name TEXT
- headline TEXT: free-text professional headline, e.g. "Backend Developer | Go | AWS"
- title TEXT: current job title
- company TEXT: current employer
- company_type TEXT: e.g. startup, fintech, consultancy, enterprise
- location TEXT: city and state, stored without accents, e.g. "Sao Paulo, SP"
- seniority_level TEXT: one of intern, junior, mid, senior, staff, principal
- seniority_rank INTEGER: 1 intern, 2 junior, 3 mid, 4 senior, 5 staff, 6 principal
- years_experience REAL
- skills TEXT: comma-separated skills
- education TEXT: institutions and degrees
- profile_url TEXT

Query rules:
- Produce exactly one SELECT statement over profiles. Never modify data.
- Always include id, full_name, headline, title, company, location, seniority_level and profile_url in the select list.
- Match text case-insensitively with UPPER(column) LIKE '%TERM%' and write TERM in upper case without accents, e.g. UPPER(location) LIKE '%SAO PAULO%'.
- Match roles against title and headline, e.g. (UPPER(title) LIKE '%BACKEND%' OR UPPER(headline) LIKE '%BACKEND%').
- End dataQuery with LIMIT 100 or less.
- countQuery is SELECT COUNT(*) FROM profiles with the same WHERE clause as dataQuery and no LIMIT.`

const formatInstructions = `Response format:
Reply with a single JSON object and nothing else: no prose, no markdown fences. Fields:
- dataQuery (required): the SELECT statement.
- countQuery (optional): the matching COUNT(*) statement.
- explanation: one sentence describing the filters in plain language.
- assistantMessage: a short reply to the recruiter in their language.
- searchCriteriaSummary: the full set of criteria currently applied, in plain language.

The object must validate against this JSON schema:
`

// BuildSystemPrompt assembles the drafting system prompt from the fixed
// domain description, the mandatory constraints, the context summary and the
// feedback context.
func BuildSystemPrompt(constraints []core.CriticalFilter, summary string, feedback []core.ProfileFeedback) string {
	var b strings.Builder
	b.WriteString(domainDescription)
	b.WriteString("\n\n")

	if len(constraints) > 0 {
		b.WriteString("MANDATORY CONSTRAINTS (NON-NEGOTIABLE). Every dataQuery and countQuery must include all of them:\n")
		for _, c := range constraints {
			fmt.Fprintf(&b, "- %s Use exactly: %s\n", c.Directive, c.Predicate)
		}
		b.WriteString("\n")
	}

	if s := strings.TrimSpace(summary); s != "" {
		b.WriteString("Context from earlier in the conversation:\n")
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	if fc := feedbackContext(feedback); fc != "" {
		b.WriteString(fc)
		b.WriteString("\n")
	}

	b.WriteString(formatInstructions)
	b.WriteString(DraftSchema)
	return b.String()
}

// feedbackContext lists judged profiles so the backend can exclude them and
// learn from the reasons. Later entries for the same profile are kept as
// additional signal.
func feedbackContext(feedback []core.ProfileFeedback) string {
	if len(feedback) == 0 {
		return ""
	}

	var (
		ids      []string
		seen     = make(map[string]bool)
		liked    []string
		disliked []string
	)
	for _, fb := range feedback {
		if fb.ProfileID != "" && !seen[fb.ProfileID] {
			seen[fb.ProfileID] = true
			ids = append(ids, quoteLiteral(fb.ProfileID))
		}
		line := describeFeedback(fb)
		if fb.Interesting {
			liked = append(liked, line)
		} else {
			disliked = append(disliked, line)
		}
	}

	var b strings.Builder
	b.WriteString("Recruiter feedback:\n")
	if len(ids) > 0 {
		fmt.Fprintf(&b, "Profiles already reviewed. Exclude them with id NOT IN (%s).\n", strings.Join(ids, ", "))
	}
	if len(liked) > 0 {
		b.WriteString("Interesting profiles. Look for more like these:\n")
		for _, l := range liked {
			b.WriteString("- " + l + "\n")
		}
	}
	if len(disliked) > 0 {
		b.WriteString("Rejected profiles. Avoid what made them a poor fit:\n")
		for _, l := range disliked {
			b.WriteString("- " + l + "\n")
		}
	}
	return b.String()
}

func describeFeedback(fb core.ProfileFeedback) string {
	name := strings.TrimSpace(fb.ProfileName)
	if name == "" {
		name = "profile"
	}
	line := fmt.Sprintf("%s (id %s)", name, fb.ProfileID)
	if r := strings.TrimSpace(fb.Reason); r != "" {
		line += ": " + r
	}
	return line
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
