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

import (
	"context"
	"io"

	"github.com/poiesic/scout/core"
)

// QueryExecutor runs read-only queries against the candidate dataset.
type QueryExecutor interface {
	// Execute runs query and returns the rows in store order.
	// Implementations must reject statements that are not read-only.
	Execute(ctx context.Context, query string) ([]core.Record, error)
}

// Dataset is a QueryExecutor that owns its underlying store.
type Dataset interface {
	QueryExecutor

	// ImportCSV loads profiles from CSV with a header row and returns the
	// number of rows stored. Rows with an existing id are replaced.
	ImportCSV(ctx context.Context, r io.Reader) (int, error)

	// Close releases the store.
	Close() error
}

// SummaryCache stores context summaries keyed by a fingerprint of the
// inputs that produced them.
type SummaryCache interface {
	// Get returns the cached summary for fingerprint.
	// Returns ErrNotFound when no entry exists.
	Get(ctx context.Context, fingerprint string) (string, error)

	// Put stores summary under fingerprint.
	Put(ctx context.Context, fingerprint, summary string) error

	// Close releases the cache.
	Close() error
}
