// Package mock provides test double implementations of AI service interfaces.
//
// This package contains a mock implementation of ai.Embedder for use in unit
// tests. The mock allows tests to run without external AI service dependencies
// and enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default deterministic behavior
//	embedder := mock.NewMockEmbedder()
//	vectors, err := embedder.EmbedTexts(ctx, []string{"chunk one", "chunk two"})
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service down")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// The default behavior returns deterministic vectors derived from a hash of
// the input text, so the same text always embeds to the same vector.
package mock
