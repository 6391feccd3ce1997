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

package summary

const systemPrompt = `You summarize a recruiter's candidate search conversation.

Read the recruiter messages and write a short statement (at most three sentences) of the durable search criteria they established: role or function, seniority, location, skills, company type and education.

Rules:
- Include only criteria the recruiter stated or confirmed. Later messages override earlier ones.
- Omit criteria that were never mentioned.
- Write plain text in the recruiter's language. No lists, no JSON, no SQL.`
