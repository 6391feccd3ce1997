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

package search

import "errors"

var (
	// ErrTextGeneratorRequired is returned when a text generator is not provided.
	ErrTextGeneratorRequired = errors.New("text generator required")

	// ErrQueryExecutorRequired is returned when a query executor is not provided.
	ErrQueryExecutorRequired = errors.New("query executor required")
)
