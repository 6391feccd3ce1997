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

package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/scout/storage"
)

// SummaryCache stores context summaries in BadgerDB.
// Safe for concurrent use.
type SummaryCache struct {
	backend     *Backend
	ownsBackend bool
	ttl         time.Duration
	logger      *slog.Logger
}

var _ storage.SummaryCache = (*SummaryCache)(nil)

// CacheOption configures a SummaryCache.
type CacheOption func(*SummaryCache) error

// WithTTL expires entries after ttl. Zero keeps entries forever.
// Default is 24h.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *SummaryCache) error {
		if ttl < 0 {
			return errors.New("summary cache: ttl cannot be negative")
		}
		c.ttl = ttl
		return nil
	}
}

// WithCacheLogger sets a custom logger.
// Default is the backend's logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *SummaryCache) error {
		if logger != nil {
			c.logger = logger.With("component", "summary-cache")
		}
		return nil
	}
}

// WithOwnedBackend makes Close also close the backend.
func WithOwnedBackend() CacheOption {
	return func(c *SummaryCache) error {
		c.ownsBackend = true
		return nil
	}
}

// NewSummaryCache creates a summary cache on top of backend.
//
// Returns storage.SummaryCache interface to enforce abstraction.
func NewSummaryCache(backend *Backend, opts ...CacheOption) (storage.SummaryCache, error) {
	return newSummaryCache(backend, opts...)
}

func newSummaryCache(backend *Backend, opts ...CacheOption) (*SummaryCache, error) {
	if backend == nil {
		return nil, errors.New("summary cache: backend required")
	}
	c := &SummaryCache{
		backend: backend,
		ttl:     24 * time.Hour,
		logger:  backend.logger.With("component", "summary-cache"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get returns the summary stored for fingerprint or storage.ErrNotFound.
func (c *SummaryCache) Get(ctx context.Context, fingerprint string) (string, error) {
	if c.backend.IsClosed() {
		return "", storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var summary string
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSummaryKey(fingerprint))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			summary = string(val)
			return nil
		})
	}, false)
	if err != nil {
		return "", err
	}
	return summary, nil
}

// Put stores summary under fingerprint, replacing any previous entry.
func (c *SummaryCache) Put(ctx context.Context, fingerprint, summary string) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeSummaryKey(fingerprint), []byte(summary))
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		c.logger.Debug("cached summary", "length", len(summary))
		return tx.Commit()
	}, true)
}

// Close closes the backend when the cache owns it.
func (c *SummaryCache) Close() error {
	if c.ownsBackend && !c.backend.IsClosed() {
		return c.backend.Close()
	}
	return nil
}
