package docqa

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docqa/ai/mock"
	"github.com/poiesic/docqa/config"
	"github.com/poiesic/docqa/core"
	"github.com/poiesic/docqa/pipeline"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "index")
	cfg.Storage.Dimension = mock.DefaultDimension

	engine, err := NewEngine(cfg, WithProvider(mock.NewMockProvider()), WithInMemoryIndex())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("creates a working engine", func(t *testing.T) {
		engine := newTestEngine(t)

		assert.NotNil(t, engine.Index())
		assert.Equal(t, mock.DefaultDimension, engine.Index().Dimension())
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		cfg := config.Default()
		cfg.Chunking.OverlapSize = cfg.Chunking.ChunkSize

		engine, err := NewEngine(cfg, WithProvider(mock.NewMockProvider()), WithInMemoryIndex())
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestEngineEndToEnd(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Storage.Dimension = mock.DefaultDimension

	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockGenerator().GenerateJSONFunc = func(ctx context.Context, system, user string) (string, error) {
		return `{"relevant": true}`, nil
	}
	provider.GetMockGenerator().GenerateTextFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Refunds are accepted within thirty days of purchase.", nil
	}

	engine, err := NewEngine(cfg, WithProvider(provider), WithInMemoryIndex())
	require.NoError(t, err)
	defer engine.Close()

	report, err := engine.Ingest(ctx, "The refund policy allows returns within thirty days of purchase with a receipt.", map[string]string{
		core.MetadataKeySource:     "policy.txt",
		core.MetadataKeyDocumentID: "doc-1",
	})
	require.NoError(t, err)
	assert.False(t, report.Failed)

	result := engine.Ask(ctx, "What is the refund policy?", 5)
	assert.Contains(t, result.Answer, "thirty days")
	assert.Equal(t, []string{"policy.txt"}, result.Sources)

	removed, err := engine.Delete(ctx, "doc-1")
	require.NoError(t, err)
	assert.Positive(t, removed)

	// After deletion nothing is retrievable.
	result = engine.Ask(ctx, "What is the refund policy?", 5)
	assert.Equal(t, pipeline.NoRelevantInformationMessage, result.Answer)
	assert.Empty(t, result.Sources)
}

func TestEngineFactories(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		p, err := engine.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, p)
		p.Release()
	})

	t.Run("can create reembedder", func(t *testing.T) {
		r := engine.NewReembedder(nil, io.Discard)
		require.NotNil(t, r)
	})
}

func TestEngineSummarize(t *testing.T) {
	engine := newTestEngine(t)

	summary, err := engine.Summarize(context.Background(), "Tiny note.")
	require.NoError(t, err)
	assert.Equal(t, "**Summary:** Tiny note.", summary)
}
