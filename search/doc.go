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

// Package search answers one conversational turn of a candidate search.
//
// A Searcher runs the turn as a single sequential flow:
//
//  1. derive mandatory constraints from the feedback (criteria)
//  2. summarize long conversations (summary)
//  3. draft a query from a bounded dialogue window (drafting)
//  4. splice missing constraints into the draft (enforce)
//  5. execute the data query and the optional count query
//  6. on zero rows, draft once more with relaxed criteria and repeat 4 and 5
//
// Only drafting and data-query execution failures abort a turn. Count,
// summary, constraint-insertion and relaxation failures are logged, reported
// to the TurnMonitor and listed in SearchResult.Warnings.
//
// A Searcher keeps no per-conversation state: history and feedback travel
// with every request, so one Searcher serves concurrent conversations.
package search
