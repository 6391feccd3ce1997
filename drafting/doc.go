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

// Package drafting turns dialogue and feedback into a query draft using a
// generative text backend.
//
// One Draft call sends one system prompt (table description, mandatory
// constraints, context summary, feedback, response format) together with a
// bounded dialogue window, then parses the reply with a ResponseParser.
//
// # Parsing
//
// The default ResponseParser tries two strategies in order:
//
//  1. StrictStrategy: the reply is a JSON object, possibly inside a code fence
//  2. BraceSpanStrategy: the first balanced {...} span in the reply
//
// Both strategies repair common JSON mistakes before giving up. Additional
// strategies can be appended with NewResponseParser without changing callers.
// The parsed object is validated against DraftSchema with gojsonschema.
//
// # Errors
//
// Every Draft failure is fatal for the turn: core.ErrBackendTimeout,
// core.ErrBackendUnavailable, core.ErrBackendResponseUnparsable or
// core.ErrIncompleteDraft. The engine never retries.
package drafting
