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

package storage

import "errors"

var (
	// ErrNotFound indicates that the requested entry was not found.
	ErrNotFound = errors.New("entry not found")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrEmptyQuery indicates a blank query was submitted.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrReadOnlyViolation indicates a statement that could modify the
	// dataset, or more than one statement, was submitted for execution.
	ErrReadOnlyViolation = errors.New("only a single read-only statement is allowed")

	// ErrInvalidDataset indicates malformed import data.
	ErrInvalidDataset = errors.New("invalid dataset")
)
