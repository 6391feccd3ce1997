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

package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/scout/core"
	"gopkg.in/yaml.v3"
)

// Scenario is one scripted conversation.
type Scenario struct {
	ID    string `json:"id" yaml:"id"`
	Turns []Turn `json:"turns" yaml:"turns"`
}

// Turn is one user message with the feedback given just before it.
type Turn struct {
	Message  string                 `json:"message" yaml:"message"`
	Feedback []core.ProfileFeedback `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Expect   *Expectation           `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Expectation is checked against the turn's result. Zero fields are not checked.
type Expectation struct {
	MinRows       int      `json:"minRows,omitempty" yaml:"minRows,omitempty"`
	MaxRows       *int     `json:"maxRows,omitempty" yaml:"maxRows,omitempty"`
	Relaxed       *bool    `json:"relaxed,omitempty" yaml:"relaxed,omitempty"`
	QueryContains []string `json:"queryContains,omitempty" yaml:"queryContains,omitempty"`
	Error         string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// UnmarshalYAML maps YAML feedback keys onto core.ProfileFeedback, which
// only carries json tags.
func (t *Turn) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Message  string       `yaml:"message"`
		Expect   *Expectation `yaml:"expect"`
		Feedback []struct {
			ProfileID   string `yaml:"profileId"`
			ProfileName string `yaml:"profileName"`
			Interesting bool   `yaml:"interesting"`
			Reason      string `yaml:"reason"`
		} `yaml:"feedback"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	t.Message = raw.Message
	t.Expect = raw.Expect
	t.Feedback = nil
	for _, fb := range raw.Feedback {
		t.Feedback = append(t.Feedback, core.ProfileFeedback{
			ProfileID:   fb.ProfileID,
			ProfileName: fb.ProfileName,
			Interesting: fb.Interesting,
			Reason:      fb.Reason,
		})
	}
	return nil
}

// LoadScenarios reads scenarios from a .jsonl, .yaml or .yml file.
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return ReadJSONL(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadJSONL decodes one scenario per non-blank line.
func ReadJSONL(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var s Scenario
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		scenarios = append(scenarios, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return normalize(scenarios)
}

// ReadYAML decodes a YAML list of scenarios.
func ReadYAML(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario
	if err := yaml.NewDecoder(r).Decode(&scenarios); err != nil && err != io.EOF {
		return nil, err
	}
	return normalize(scenarios)
}

// normalize assigns missing ids and rejects empty scenarios.
func normalize(scenarios []Scenario) ([]Scenario, error) {
	for i := range scenarios {
		if scenarios[i].ID == "" {
			scenarios[i].ID = uuid.NewString()
		}
		if len(scenarios[i].Turns) == 0 {
			return nil, fmt.Errorf("%w: %s has no turns", ErrInvalidScenario, scenarios[i].ID)
		}
	}
	return scenarios, nil
}
