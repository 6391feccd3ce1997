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

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/poiesic/scout/storage"
)

// mutatingKeywords may not appear anywhere outside literals.
var mutatingKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"DROP":     true,
	"ALTER":    true,
	"CREATE":   true,
	"ATTACH":   true,
	"DETACH":   true,
	"PRAGMA":   true,
	"VACUUM":   true,
	"REINDEX":  true,
	"TRUNCATE": true,
}

// CheckReadOnly returns storage.ErrReadOnlyViolation unless query is a single
// SELECT or WITH statement that mentions no mutating keyword outside string
// literals, quoted identifiers or comments.
func CheckReadOnly(query string) error {
	code := strings.TrimSpace(stripLiterals(query))
	code = strings.TrimSpace(strings.TrimRight(code, "; \t\r\n"))
	if code == "" {
		return storage.ErrEmptyQuery
	}
	if strings.Contains(code, ";") {
		return fmt.Errorf("%w: multiple statements", storage.ErrReadOnlyViolation)
	}

	words := strings.FieldsFunc(strings.ToUpper(code), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if len(words) == 0 || (words[0] != "SELECT" && words[0] != "WITH") {
		return fmt.Errorf("%w: statement must start with SELECT or WITH", storage.ErrReadOnlyViolation)
	}
	for i, w := range words {
		if mutatingKeywords[w] {
			return fmt.Errorf("%w: %s", storage.ErrReadOnlyViolation, w)
		}
		// replace() is a scalar function; only REPLACE INTO mutates
		if w == "REPLACE" && i+1 < len(words) && words[i+1] == "INTO" {
			return fmt.Errorf("%w: REPLACE INTO", storage.ErrReadOnlyViolation)
		}
	}
	return nil
}

// stripLiterals blanks out string literals, quoted identifiers and comments.
func stripLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\'' || r == '"' || r == '`':
			quote := r
			b.WriteRune(' ')
			for i++; i < len(rs); i++ {
				if rs[i] == quote {
					// doubled quote is an escape
					if i+1 < len(rs) && rs[i+1] == quote {
						i++
						continue
					}
					break
				}
			}
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			b.WriteRune(' ')
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			i += 2
			for i < len(rs) && !(rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/') {
				i++
			}
			i++
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
