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

// Package criteria derives mandatory query constraints from recruiter feedback.
//
// The derivation is a pure function of the feedback set: the same feedback,
// in any order, always yields the same ordered constraint list. A constraint
// is only emitted once a complaint repeats, so a single outlier reason never
// reshapes the search.
//
// # Keyword families
//
// Negative reasons are accent-folded and lower-cased, then matched against
// two families:
//
//   - too senior: senior, experiente, experiencia, experience, anos, years,
//     overqualified, superqualificad
//   - too junior: junior, inexperiente, inexperienced, estagi, intern,
//     and lack-of-experience phrases such as "sem experiencia"
//
// Lack-of-experience phrases are removed before the too-senior scan, so
// "inexperiente" never counts as a seniority complaint.
//
// Two or more too-senior reasons emit the seniority pair (see SeniorityFilters).
// The too-junior family is counted but never emits constraints.
package criteria
