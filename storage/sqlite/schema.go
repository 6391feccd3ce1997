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

package sqlite

import "strings"

// columnKind is the storage class of a profiles column.
type columnKind int

const (
	kindText columnKind = iota
	kindInteger
	kindReal
)

type column struct {
	name string
	kind columnKind
	// fold strips accents on import so ASCII LIKE patterns match.
	fold bool
}

// profileColumns is the typed layout of the profiles table. Numeric columns
// are stored as numbers so predicates like seniority_rank <= 2 compare
// numerically.
var profileColumns = []column{
	{name: "id", kind: kindText},
	{name: "full_name", kind: kindText},
	{name: "headline", kind: kindText},
	{name: "title", kind: kindText},
	{name: "company", kind: kindText},
	{name: "company_type", kind: kindText},
	{name: "location", kind: kindText, fold: true},
	{name: "seniority_level", kind: kindText},
	{name: "seniority_rank", kind: kindInteger},
	{name: "years_experience", kind: kindReal},
	{name: "skills", kind: kindText},
	{name: "education", kind: kindText},
	{name: "profile_url", kind: kindText},
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	full_name TEXT,
	headline TEXT,
	title TEXT,
	company TEXT,
	company_type TEXT,
	location TEXT,
	seniority_level TEXT,
	seniority_rank INTEGER,
	years_experience REAL,
	skills TEXT,
	education TEXT,
	profile_url TEXT
);
CREATE INDEX IF NOT EXISTS idx_profiles_seniority_rank ON profiles(seniority_rank);
CREATE INDEX IF NOT EXISTS idx_profiles_location ON profiles(location);
`

// lookupColumn maps a CSV header to a profiles column.
// Headers are matched case-insensitively with spaces and dashes read as
// underscores, so "Full Name" maps to full_name.
func lookupColumn(header string) (column, bool) {
	h := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	for _, c := range profileColumns {
		if c.name == h {
			return c, true
		}
	}
	return column{}, false
}
