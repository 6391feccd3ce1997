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

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/poiesic/scout/core"
	"github.com/poiesic/scout/storage"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Dataset is a SQLite-backed candidate dataset.
// Safe for concurrent use.
type Dataset struct {
	db     *sql.DB
	closed atomic.Bool
	logger *slog.Logger
}

var _ storage.Dataset = (*Dataset)(nil)

// Option configures a Dataset.
type Option func(*Dataset) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dataset) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger.With("component", "sqlite-dataset")
		return nil
	}
}

// Open opens or creates the dataset file at path and ensures the profiles
// table exists.
//
// Returns storage.Dataset interface to enforce abstraction.
func Open(path string, opts ...Option) (storage.Dataset, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open(driverName, "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newDataset(db, opts...)
}

// OpenMemory opens an empty in-memory dataset.
// Intended for tests and one-shot imports.
func OpenMemory(opts ...Option) (storage.Dataset, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)
	return newDataset(db, opts...)
}

func newDataset(db *sql.DB, opts ...Option) (*Dataset, error) {
	d := &Dataset{
		db:     db,
		logger: slog.Default().With("component", "sqlite-dataset"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return d, nil
}

// Execute runs a read-only query and returns the rows in store order.
// Column values are int64, float64, string or nil.
func (d *Dataset) Execute(ctx context.Context, query string) ([]core.Record, error) {
	if d.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if err := CheckReadOnly(query); err != nil {
		d.logger.Warn("rejected query", "query", query, "err", err)
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []core.Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(core.Record, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				record[name] = string(b)
				continue
			}
			record[name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	d.logger.Debug("executed query", "rows", len(records))
	return records, nil
}

// Close closes the database. Subsequent calls return storage.ErrStorageClosed.
func (d *Dataset) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return storage.ErrStorageClosed
	}
	return d.db.Close()
}
