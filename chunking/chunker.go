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


package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docqa/ai"
	"github.com/poiesic/docqa/core"
)

// Chunker splits documents into chunks according to a Config.
// The same chunker instance can serve both strategies; the semantic
// strategy requires an embedder.
type Chunker struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithEmbedder sets the embedder used by the semantic strategy.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(c *Chunker) error {
		c.embedder = embedder
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChunker creates a new chunker.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		logger: slog.Default().With("component", "chunker"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Split divides text into chunks per the configured strategy. Every chunk
// carries a copy of metadata extended with its chunk index. The returned
// chunks preserve document order.
func (c *Chunker) Split(ctx context.Context, text string, metadata map[string]string, cfg Config) ([]*core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidInput)
	}
	if metadata == nil {
		return nil, fmt.Errorf("%w: nil metadata", ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		chunks []*core.Chunk
		err    error
	)

	switch cfg.Strategy {
	case StrategySemantic:
		if c.embedder == nil {
			return nil, ErrEmbedderRequired
		}
		chunks, err = c.splitSemantic(ctx, text, metadata, cfg)
	default:
		chunks, err = c.splitGeneral(text, metadata, cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChunkingFailed, err)
	}

	c.logger.Debug("document split",
		"strategy", cfg.Strategy,
		"chunks", len(chunks))

	return chunks, nil
}
