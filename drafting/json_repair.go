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

import "unicode"

// repairJSON fixes formatting mistakes common in model output:
//   - raw newlines, carriage returns and tabs inside strings (typical in
//     multi-line SQL) are escaped
//   - trailing commas before } or ] are dropped
//   - keys missing their opening quote, such as {dataQuery": ...}, or both
//     quotes, such as {dataQuery: ...}, are quoted
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	inString := false
	escaped := false
	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				out = append(out, ch)
			case ch == '\\':
				escaped = true
				out = append(out, ch)
			case ch == '"':
				inString = false
				out = append(out, ch)
			case ch == '\n':
				out = append(out, '\\', 'n')
			case ch == '\r':
				out = append(out, '\\', 'r')
			case ch == '\t':
				out = append(out, '\\', 't')
			default:
				out = append(out, ch)
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)
		case ',':
			if next := nextNonSpace(in, i+1); next < len(in) && (in[next] == '}' || in[next] == ']') {
				continue
			}
			out = append(out, ch)
			i = quoteBareKey(in, i+1, &out)
		case '{':
			out = append(out, ch)
			i = quoteBareKey(in, i+1, &out)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

// quoteBareKey copies whitespace starting at from and, when it is followed by
// an identifier that ends in '":', emits the identifier with its missing
// opening quote. It returns the index of the last rune consumed.
func quoteBareKey(in []rune, from int, out *[]rune) int {
	i := from
	for i < len(in) && unicode.IsSpace(in[i]) {
		*out = append(*out, in[i])
		i++
	}
	start := i
	for i < len(in) && (unicode.IsLetter(in[i]) || unicode.IsDigit(in[i]) || in[i] == '_') {
		i++
	}
	if i > start && unicode.IsLetter(in[start]) && i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
		*out = append(*out, '"')
		*out = append(*out, in[start:i]...)
		*out = append(*out, '"', ':')
		return i + 1
	}
	if next := nextNonSpace(in, i); i > start && unicode.IsLetter(in[start]) && next < len(in) && in[next] == ':' {
		*out = append(*out, '"')
		*out = append(*out, in[start:i]...)
		*out = append(*out, '"')
		return i - 1
	}
	*out = append(*out, in[start:i]...)
	return i - 1
}

func nextNonSpace(in []rune, from int) int {
	for from < len(in) && unicode.IsSpace(in[from]) {
		from++
	}
	return from
}
