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


package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/docqa/ai"
	"github.com/poiesic/docqa/storage"
)

// DefaultLimit is the number of results returned when the caller does not
// ask for a specific count.
const DefaultLimit = 5

// Result is one retrieved chunk with its source metadata.
type Result struct {
	Content  string
	Metadata map[string]string
	Score    float32
}

// Retriever embeds queries and finds the most similar stored chunks.
// Retrieval is a soft dependency of answering: any failure here is logged
// and reported as an empty result set, so a storage or embedding hiccup
// degrades the answer instead of killing the request.
type Retriever struct {
	index    storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewRetriever creates a retriever over the given index and embedder.
func NewRetriever(index storage.VectorIndex, embedder ai.Embedder) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
		logger:   slog.Default().With("component", "retriever"),
	}
}

// Search returns up to k chunks most similar to the query, best first.
// k values below 1 fall back to DefaultLimit. The returned slice is empty,
// never nil on error.
func (r *Retriever) Search(ctx context.Context, query string, k int) []Result {
	if k <= 0 {
		k = DefaultLimit
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("query embedding failed", "error", err)
		return []Result{}
	}

	scored, err := r.index.Search(ctx, vector, k)
	if err != nil {
		r.logger.Error("vector search failed", "error", err)
		return []Result{}
	}

	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		results = append(results, Result{
			Content:  s.Record.Content,
			Metadata: s.Record.Metadata,
			Score:    s.Score,
		})
	}

	r.logger.Debug("retrieval complete", "query_len", len(query), "results", len(results))

	return results
}
