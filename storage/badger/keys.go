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

import "github.com/go-crypt/x/blake2b"

const (
	summaryPrefix = "sumcache:"
	// digestSize is the BLAKE2b output length used for summary keys.
	digestSize = 16
)

// makeSummaryKey derives the cache key for a fingerprint.
// Format: prefix + 16-byte BLAKE2b digest
func makeSummaryKey(fingerprint string) []byte {
	h, _ := blake2b.New(digestSize, nil)
	h.Write([]byte(fingerprint))
	return h.Sum([]byte(summaryPrefix))
}
