package storage

import (
	"context"

	"github.com/poiesic/docqa/core"
)

// VectorIndex provides storage and similarity search over embedded chunks.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// Add inserts or overwrites vector records.
	// Records whose vector dimension does not match the index dimension
	// are rejected with ErrDimensionMismatch; nothing is written.
	Add(ctx context.Context, records ...*core.VectorRecord) error

	// Search returns up to k records most similar to the query vector,
	// ordered by similarity score (highest first).
	Search(ctx context.Context, vector []float32, k int) ([]*core.ScoredRecord, error)

	// Delete removes records by their IDs.
	// Missing IDs are ignored.
	Delete(ctx context.Context, ids ...core.ID) error

	// DeleteWhere removes every record whose metadata has the given
	// key/value pair. Returns the number of records removed.
	DeleteWhere(ctx context.Context, key, value string) (int, error)

	// All returns every record in the index.
	All(ctx context.Context) ([]*core.VectorRecord, error)

	// Dimension returns the vector dimension the index was opened with.
	Dimension() int

	// Close closes the index and releases resources.
	Close() error
}
