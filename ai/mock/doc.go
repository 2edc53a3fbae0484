// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// ai.Moderator, and ai.Provider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embedding, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockGen := mock.NewMockGenerator()
//	mockGen.GenerateJSONFunc = func(ctx context.Context, system, user string) (string, error) {
//	    return `{"relevant": true}`, nil
//	}
//
//	// Check call counts
//	count := mockGen.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockGenerator: Returns a canned text response and an empty JSON object
//   - MockModerator: Flags nothing
//   - MockProvider: Aggregates mock embedder, generator and moderator
package mock
