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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoPayload is returned by a ParseStrategy that found no JSON object.
var ErrNoPayload = errors.New("no JSON object found")

// ParseStrategy extracts a JSON object from raw backend text.
type ParseStrategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// Extract returns the JSON object bytes found in raw.
	Extract(raw string) ([]byte, error)
}

// ResponseParser tries its strategies in order and returns the first payload
// one of them extracts.
type ResponseParser struct {
	strategies []ParseStrategy
}

// NewResponseParser creates a parser with the given ordered strategies.
func NewResponseParser(strategies ...ParseStrategy) *ResponseParser {
	return &ResponseParser{strategies: strategies}
}

// DefaultResponseParser parses strictly first, then falls back to the first
// balanced brace span in the text.
func DefaultResponseParser() *ResponseParser {
	return NewResponseParser(StrictStrategy{}, BraceSpanStrategy{})
}

// Parse returns the payload of the first successful strategy and its name.
// When all strategies fail the error joins each strategy's failure.
func (p *ResponseParser) Parse(raw string) ([]byte, string, error) {
	if len(p.strategies) == 0 {
		return nil, "", errors.New("response parser has no strategies")
	}
	var errs []error
	for _, s := range p.strategies {
		payload, err := s.Extract(raw)
		if err == nil {
			return payload, s.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return nil, "", errors.Join(errs...)
}

// StrictStrategy treats the whole response as a JSON object, after removing
// a surrounding markdown code fence and repairing common mistakes.
type StrictStrategy struct{}

// Name implements ParseStrategy.
func (StrictStrategy) Name() string { return "strict" }

// Extract implements ParseStrategy.
func (StrictStrategy) Extract(raw string) ([]byte, error) {
	text := stripCodeFence(raw)
	if !strings.HasPrefix(text, "{") {
		return nil, ErrNoPayload
	}
	return decodeObject(text)
}

// BraceSpanStrategy extracts the first balanced {...} span in the response,
// ignoring braces inside JSON strings.
type BraceSpanStrategy struct{}

// Name implements ParseStrategy.
func (BraceSpanStrategy) Name() string { return "brace-span" }

// Extract implements ParseStrategy.
func (BraceSpanStrategy) Extract(raw string) ([]byte, error) {
	var lastErr error = ErrNoPayload
	for offset := 0; offset < len(raw); {
		start := strings.IndexByte(raw[offset:], '{')
		if start < 0 {
			break
		}
		start += offset
		end := matchBrace(raw, start)
		if end < 0 {
			break
		}
		payload, err := decodeObject(raw[start : end+1])
		if err == nil {
			return payload, nil
		}
		lastErr = err
		offset = start + 1
	}
	return nil, lastErr
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// decodeObject accepts text that is, or after repair becomes, a JSON object
// and returns it re-encoded as compact JSON.
func decodeObject(text string) ([]byte, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		repaired := repairJSON(text)
		if rerr := json.Unmarshal([]byte(repaired), &obj); rerr != nil {
			return nil, err
		}
	}
	if obj == nil {
		return nil, ErrNoPayload
	}
	return json.Marshal(obj)
}

// stripCodeFence removes a markdown code fence wrapping the whole text.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
