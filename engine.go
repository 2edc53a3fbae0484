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


package docqa

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/docqa/ai"
	"github.com/poiesic/docqa/ai/openai"
	"github.com/poiesic/docqa/chunking"
	"github.com/poiesic/docqa/config"
	"github.com/poiesic/docqa/ingestion"
	"github.com/poiesic/docqa/pipeline"
	"github.com/poiesic/docqa/reembed"
	"github.com/poiesic/docqa/search"
	"github.com/poiesic/docqa/storage"
	"github.com/poiesic/docqa/storage/badger"
	"github.com/poiesic/docqa/summarize"
)

// Engine wires the vector index, AI provider and pipeline stages into one
// question-answering system over uploaded documents.
type Engine struct {
	cfg          *config.Config
	index        storage.VectorIndex
	provider     ai.Provider
	ingest       *ingestion.Service
	orchestrator *pipeline.Orchestrator
	summarizer   *summarize.Summarizer
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.Provider
	inMemory bool
}

// WithProvider substitutes the AI provider, typically with mocks in tests.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemoryIndex opens the vector index in memory regardless of the
// configured storage path.
func WithInMemoryIndex() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{inMemory: cfg.Storage.InMemory}
	for _, opt := range opts {
		opt(options)
	}

	index, err := badger.OpenIndex(cfg.Storage.Path, cfg.Storage.Dimension, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = newProviderFromConfig(cfg)
		if err != nil {
			index.Close()
			return nil, err
		}
	}

	chunker, err := chunking.NewChunker(chunking.WithEmbedder(provider.Embedder()))
	if err != nil {
		provider.Close()
		index.Close()
		return nil, err
	}

	writer := ingestion.NewBatchWriter(index, provider.Embedder())
	ingest, err := ingestion.NewService(chunker, writer, index, cfg.Chunking)
	if err != nil {
		provider.Close()
		index.Close()
		return nil, err
	}

	retriever := search.NewRetriever(index, provider.Embedder())
	orchestrator, err := pipeline.NewOrchestrator(
		pipeline.NewGate(provider.Moderator()),
		retriever,
		pipeline.NewJudge(provider.Generator()),
		pipeline.NewAnswerer(provider.Generator()),
		pipeline.WithTopK(cfg.Retrieval.TopK),
	)
	if err != nil {
		provider.Close()
		index.Close()
		return nil, err
	}

	return &Engine{
		cfg:          cfg,
		index:        index,
		provider:     provider,
		ingest:       ingest,
		orchestrator: orchestrator,
		summarizer:   summarize.NewSummarizer(provider.Generator()),
		logger:       slog.Default(),
	}, nil
}

// Ingest chunks a document and stores it for retrieval.
func (e *Engine) Ingest(ctx context.Context, text string, metadata map[string]string) (*ingestion.WriteReport, error) {
	return e.ingest.IngestDocument(ctx, text, metadata)
}

// Ask answers a question from the ingested documents.
func (e *Engine) Ask(ctx context.Context, query string, k int) *pipeline.Result {
	return e.orchestrator.Invoke(ctx, query, k)
}

// Delete removes all chunks of a document and reports how many were removed.
func (e *Engine) Delete(ctx context.Context, documentID string) (int, error) {
	return e.ingest.DeleteDocument(ctx, documentID)
}

// Summarize produces a markdown summary of a document.
func (e *Engine) Summarize(ctx context.Context, content string) (string, error) {
	return e.summarizer.Summarize(ctx, content)
}

// NewIngestionPipeline creates a concurrent ingestion pipeline over this
// engine's index and provider.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.ingest, opts...)
}

// NewReembedder creates a reembedder over this engine's index.
func (e *Engine) NewReembedder(rcfg *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(e.index, e.provider.Embedder(), rcfg, progress)
}

// Index exposes the vector index for maintenance tooling.
func (e *Engine) Index() storage.VectorIndex {
	return e.index
}

// Close shuts down the provider and the index.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.index.Close(); err != nil {
		e.logger.Error("error closing vector index", "err", err)
		return err
	}
	return nil
}

// newProviderFromConfig assembles the OpenAI-compatible provider from the
// application configuration.
func newProviderFromConfig(cfg *config.Config) (ai.Provider, error) {
	token := cfg.Token()
	if token == "" {
		token = "none"
	}

	aiCfg := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithChatHost(cfg.AI.ChatHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithChatModel(cfg.AI.ChatModel),
		ai.WithToken(token),
		ai.WithTemperature(cfg.AI.Temperature),
	)

	return openai.NewProvider(aiCfg)
}
