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

package export

import (
	"strings"

	"github.com/poiesic/scout/core"
)

// Feedback labels written to ExportRecord.FeedbackLabel.
const (
	LabelInteresting    = "interesting"
	LabelNotInteresting = "not interesting"
)

// Column names read from result rows.
const (
	columnName       = "full_name"
	columnProfileURL = "profile_url"
	columnHeadline   = "headline"
	columnCompany    = "company"
)

// BuildRecords maps rows to export records, attaching feedback by profile id.
// When a profile has several feedback entries the latest one sets the label
// and every non-empty reason is kept, joined with "; ". Rows keep their order;
// rows without an id are skipped.
func BuildRecords(rows []core.Record, feedback []core.ProfileFeedback) []core.ExportRecord {
	type judgement struct {
		label   string
		reasons []string
	}
	byProfile := make(map[string]*judgement, len(feedback))
	for _, fb := range feedback {
		j, ok := byProfile[fb.ProfileID]
		if !ok {
			j = &judgement{}
			byProfile[fb.ProfileID] = j
		}
		j.label = LabelNotInteresting
		if fb.Interesting {
			j.label = LabelInteresting
		}
		if reason := strings.TrimSpace(fb.Reason); reason != "" {
			j.reasons = append(j.reasons, reason)
		}
	}

	records := make([]core.ExportRecord, 0, len(rows))
	for _, row := range rows {
		id := row.ID()
		if id == "" {
			continue
		}
		rec := core.ExportRecord{
			Name:       row.String(columnName),
			ProfileURL: row.String(columnProfileURL),
			Headline:   row.String(columnHeadline),
			Company:    row.String(columnCompany),
		}
		if j, ok := byProfile[id]; ok {
			rec.FeedbackLabel = j.label
			rec.Reason = strings.Join(j.reasons, "; ")
		}
		records = append(records, rec)
	}
	return records
}
