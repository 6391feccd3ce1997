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

	"github.com/xeipuuv/gojsonschema"
)

// DraftSchema is the JSON schema a parsed draft must satisfy. Only dataQuery
// is required; the other fields default to empty when absent or null.
const DraftSchema = `{
  "type": "object",
  "required": ["dataQuery"],
  "properties": {
    "dataQuery": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "countQuery": {"type": ["string", "null"]},
    "explanation": {"type": ["string", "null"]},
    "assistantMessage": {"type": ["string", "null"]},
    "searchCriteriaSummary": {"type": ["string", "null"]}
  }
}`

// draftValidator checks payloads against DraftSchema.
type draftValidator struct {
	schema *gojsonschema.Schema
}

func newDraftValidator() (*draftValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(DraftSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile draft schema: %w", err)
	}
	return &draftValidator{schema: schema}, nil
}

// Validate returns an error listing every schema violation in payload.
func (v *draftValidator) Validate(payload []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
}
