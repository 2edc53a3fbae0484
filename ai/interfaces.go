package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text from a language model.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateText generates a free-form completion for the given prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON generates a completion constrained to JSON output,
	// using separate system and user messages. The returned string is the
	// model's raw JSON text with code fences and common formatting defects
	// already stripped; callers are still responsible for handling
	// responses that fail to parse.
	GenerateJSON(ctx context.Context, system, user string) (string, error)
}

// Moderator classifies text against a content policy.
// Implementations must be thread-safe for concurrent use.
type Moderator interface {
	// Classify reports whether the text is flagged by the content policy.
	// Returns (true, nil) for flagged content, (false, nil) for safe content.
	// Errors indicate the classification backend failed, not that the text
	// is unsafe; fallback policy on error belongs to the caller.
	Classify(ctx context.Context, text string) (bool, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Generator, and
// Moderator instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Moderator returns the content classification service.
	// The returned Moderator is safe for concurrent use.
	Moderator() Moderator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
