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

package enforce

import "strings"

// mask returns an upper-cased copy of query with string literals, quoted
// identifiers and comments replaced by spaces. Byte offsets are preserved
// so positions found in the mask index the original query.
func mask(query string) string {
	b := []byte(query)
	for i := 0; i < len(b); i++ {
		switch c := b[i]; {
		case c == '\'' || c == '"' || c == '`':
			b[i] = ' '
			for i++; i < len(b); i++ {
				if b[i] == c {
					if i+1 < len(b) && b[i+1] == c {
						b[i], b[i+1] = ' ', ' '
						i++
						continue
					}
					b[i] = ' '
					break
				}
				b[i] = ' '
			}
		case c == '-' && i+1 < len(b) && b[i+1] == '-':
			for ; i < len(b) && b[i] != '\n'; i++ {
				b[i] = ' '
			}
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			for ; i < len(b); i++ {
				if b[i] == '*' && i+1 < len(b) && b[i+1] == '/' {
					b[i], b[i+1] = ' ', ' '
					i++
					break
				}
				b[i] = ' '
			}
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func isIdent(c byte) bool {
	return c == '_' || c == '.' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c >= 0x80
}

// wordAt reports whether the upper-case word w starts at i in m with word
// boundaries on both sides.
func wordAt(m string, i int, w string) bool {
	if !strings.HasPrefix(m[i:], w) {
		return false
	}
	if i > 0 && isIdent(m[i-1]) {
		return false
	}
	end := i + len(w)
	return end >= len(m) || !isIdent(m[end])
}

// keywordAt reports whether keyword (one or two words, such as "ORDER BY")
// starts at i.
func keywordAt(m string, i int, keyword string) bool {
	first, second, pair := strings.Cut(keyword, " ")
	if !wordAt(m, i, first) {
		return false
	}
	if !pair {
		return true
	}
	j := i + len(first)
	for j < len(m) && isSpace(m[j]) {
		j++
	}
	return j > i+len(first) && wordAt(m, j, second)
}

// containsWord reports whether the upper-case word w occurs in m on
// identifier boundaries. A table qualifier such as "P." may precede it.
func containsWord(m, w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(m); {
		j := strings.Index(m[i:], w)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(w)
		before := start == 0 || m[start-1] == '.' || !isIdent(m[start-1])
		after := end >= len(m) || !isIdent(m[end])
		if before && after {
			return true
		}
		i = start + 1
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// findTopLevel returns the offset of the first keyword from keywords found at
// parenthesis depth zero at or after from, or -1.
func findTopLevel(m string, from int, keywords ...string) (int, string) {
	depth := 0
	for i := 0; i < len(m); i++ {
		switch m[i] {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if i < from || depth != 0 {
			continue
		}
		for _, k := range keywords {
			if keywordAt(m, i, k) {
				return i, k
			}
		}
	}
	return -1, ""
}
