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

package mock

import "github.com/poiesic/scout/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	generator *MockTextGenerator
	closed    bool
}

// NewMockProvider creates a mock provider whose generator replays responses.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockGenerator() to access the concrete type for test assertions.
func NewMockProvider(responses ...string) ai.AIProvider {
	return &MockProvider{generator: NewMockTextGenerator(responses...)}
}

// NewMockProviderWithGenerator creates a mock provider around a custom generator.
func NewMockProviderWithGenerator(generator *MockTextGenerator) ai.AIProvider {
	return &MockProvider{generator: generator}
}

// TextGenerator returns the mock generator.
func (p *MockProvider) TextGenerator() ai.TextGenerator {
	return p.generator
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockGenerator returns the underlying mock generator for test assertions.
func (p *MockProvider) GetMockGenerator() *MockTextGenerator {
	return p.generator
}
