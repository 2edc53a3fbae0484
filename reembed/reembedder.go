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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/docqa/ai"
	"github.com/poiesic/docqa/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:  100,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Reembedder rewrites every record in a vector index with fresh
// embeddings. It exists for the day the embedding model changes: vectors
// from different models are not comparable, so the whole index has to be
// rebuilt in one pass.
type Reembedder struct {
	index    storage.VectorIndex
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(index storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		index:    index,
		embedder: embedder,
		config:   config,
		progress: progress,
	}
}

// Run re-embeds all records in the index in batches. Vectors are
// normalized before being written back. The new embedder must produce
// vectors of the index dimension.
func (r *Reembedder) Run(ctx context.Context) error {
	records, err := r.index.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	total := len(records)
	if total == 0 {
		fmt.Fprintf(r.progress, "No records found in index (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records (batch size: %d)\n",
		total, r.config.BatchSize)

	start := time.Now()
	processed := 0

	for begin := 0; begin < total; begin += r.config.BatchSize {
		end := begin + r.config.BatchSize
		if end > total {
			end = total
		}
		batch := records[begin:end]

		texts := make([]string, len(batch))
		for i, record := range batch {
			texts[i] = record.Content
		}

		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to embed batch after %d attempts: %w", r.config.MaxRetries, err)
		}

		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
		}

		for i, record := range batch {
			vector := NormalizeVector(vectors[i])
			if len(vector) != r.index.Dimension() {
				return fmt.Errorf("%w: embedder produced %d, index expects %d",
					ErrDimensionMismatch, len(vector), r.index.Dimension())
			}
			record.Vector = vector
		}

		if err := r.index.Add(ctx, batch...); err != nil {
			return fmt.Errorf("failed to rewrite batch: %w", err)
		}

		processed += len(batch)
		fmt.Fprintf(r.progress, "Processed %d/%d records\n", processed, total)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
