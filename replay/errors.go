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

import "errors"

var (
	// ErrTurnProcessorRequired is returned when no turn processor is provided.
	ErrTurnProcessorRequired = errors.New("turn processor required")

	// ErrUnsupportedFormat is returned for scenario files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported scenario file format")

	// ErrInvalidScenario is returned when a scenario has no turns.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrInvalidMaxAttempts is returned when retry attempts is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
