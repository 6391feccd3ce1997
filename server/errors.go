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

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/export"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidTurnRequest):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, export.ErrListIDRequired), errors.Is(err, export.ErrNothingToExport):
		return http.StatusBadRequest, "INVALID_EXPORT"
	case errors.Is(err, core.ErrBackendTimeout):
		return http.StatusGatewayTimeout, "BACKEND_TIMEOUT"
	case errors.Is(err, core.ErrBackendUnavailable):
		return http.StatusBadGateway, "BACKEND_UNAVAILABLE"
	case errors.Is(err, core.ErrBackendResponseUnparsable):
		return http.StatusBadGateway, "BACKEND_RESPONSE_UNPARSABLE"
	case errors.Is(err, core.ErrIncompleteDraft):
		return http.StatusBadGateway, "INCOMPLETE_DRAFT"
	case errors.Is(err, core.ErrQueryExecutionFailed):
		return http.StatusInternalServerError, "QUERY_EXECUTION_FAILED"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "CANCELED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
