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

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateTurnRequest validates a TurnRequest.
//
// Validation rules:
//   - Message must not be blank
//   - every History turn has a known role, and user turns have content
//   - every Feedback entry names a profile id
//
// NOT validated:
//   - duplicate feedback per profile (treated as extra signal)
//   - turn alternation (any order of roles is accepted)
//   - assistant content (an empty reply is a valid turn)
func ValidateTurnRequest(req *TurnRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidTurnRequest)
	}

	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTurnRequest, ErrEmptyMessage)
	}

	for i, turn := range req.History {
		if err := ValidateRole(turn.Role); err != nil {
			return fmt.Errorf("%w: history[%d]: %w", ErrInvalidTurnRequest, i, err)
		}
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" "+fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidTurnRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidTurnRequest, err)
	}

	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
	}
	return nil
}
