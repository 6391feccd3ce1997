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

// Package storage provides the storage abstraction layer for scout.
//
// The search engine only needs two capabilities from storage: running a
// read-only query against the candidate dataset (QueryExecutor) and caching
// context summaries (SummaryCache). Both are interfaces so the engine can be
// tested against fakes and deployed against different stores.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to prevent coupling to a backend:
//
//	dataset, err := sqlite.Open("scout.db")        // returns storage.Dataset
//	cache, err := badger.NewSummaryCache(backend)  // returns storage.SummaryCache
//
// # Implementations
//
//   - storage/sqlite: SQLite-backed profiles dataset with a read-only guard
//   - storage/badger: BadgerDB-backed summary cache
//
// # Usage
//
//	dataset, err := sqlite.Open("/path/to/scout.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dataset.Close()
//
//	rows, err := dataset.Execute(ctx, "SELECT id, full_name FROM profiles LIMIT 10")
//
// Use in tests with in-memory storage:
//
//	dataset, err := sqlite.OpenMemory()
//	cache, backend, err := badger.NewMemorySummaryCache()
package storage
