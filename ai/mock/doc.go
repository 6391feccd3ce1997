// Package mock provides test double implementations of AI service interfaces.
//
// MockTextGenerator replays scripted backend responses in order and records
// every prompt it receives, so tests can drive the search engine through
// multi-call turns (draft, relaxed draft, summary) deterministically.
//
// # Usage in Tests
//
//	gen := mock.NewMockTextGenerator(
//	    `{"dataQuery": "SELECT id FROM profiles WHERE 1=0"}`,
//	    `{"dataQuery": "SELECT id FROM profiles"}`,
//	)
//	searcher, _ := search.NewSearcher(gen, executor)
//
//	// Custom behavior injection
//	gen.WithGenerateTextFunc(func(ctx context.Context, system string, msgs []core.DialogueTurn) (string, error) {
//	    return "", core.ErrBackendTimeout
//	})
//
//	// Check calls
//	count := gen.CallCount()
//	last := gen.Calls()[count-1]
package mock
