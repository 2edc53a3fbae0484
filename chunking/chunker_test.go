package chunking

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docqa/ai/mock"
	"github.com/poiesic/docqa/core"
)

func TestSplitGeneral(t *testing.T) {
	chunker, err := NewChunker()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ChunkSize = 80
	cfg.OverlapSize = 10

	text := strings.Repeat("The refund policy allows returns within thirty days of purchase. ", 20)
	metadata := map[string]string{core.MetadataKeySource: "policy.txt"}

	chunks, err := chunker.Split(context.Background(), text, metadata, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	t.Run("chunk indexes are dense and ordered", func(t *testing.T) {
		for i, chunk := range chunks {
			assert.Equal(t, strconv.Itoa(i), chunk.Metadata[core.MetadataKeyChunkIndex])
		}
	})

	t.Run("metadata is extended not replaced", func(t *testing.T) {
		for _, chunk := range chunks {
			assert.Equal(t, "policy.txt", chunk.Metadata[core.MetadataKeySource])
		}
	})

	t.Run("source metadata is not mutated", func(t *testing.T) {
		assert.Len(t, metadata, 1)
	})

	t.Run("every chunk has content", func(t *testing.T) {
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk.Content)
		}
	})
}

func TestSplitGeneralContextWindow(t *testing.T) {
	chunker, err := NewChunker()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ChunkSize = 30
	cfg.OverlapSize = 5
	cfg.ContextWindow = 1

	text := "First paragraph about alpha.\n\nSecond paragraph about beta.\n\nThird paragraph about gamma."

	chunks, err := chunker.Split(context.Background(), text, map[string]string{}, cfg)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	// With a window of 1, the middle chunk must include both neighbors.
	if len(chunks) >= 3 {
		assert.Contains(t, chunks[1].Content, "alpha")
		assert.Contains(t, chunks[1].Content, "gamma")
	}
}

func TestSplitGeneralOverlapBound(t *testing.T) {
	chunker, err := NewChunker()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ChunkSize = 60
	cfg.OverlapSize = 12
	cfg.ContextWindow = 0

	text := "Refunds are issued within thirty days of purchase when the receipt is present. " +
		"Store credit applies after that window closes. " +
		"Damaged goods qualify for replacement rather than refund. " +
		"Shipping fees are never reimbursed unless the carrier lost the parcel. " +
		"Gift returns require the original order number from the buyer."

	chunks, err := chunker.Split(context.Background(), text, map[string]string{}, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		shared := sharedBoundary(chunks[i-1].Content, chunks[i].Content)
		assert.LessOrEqual(t, shared, cfg.OverlapSize,
			"chunks %d and %d share %d characters", i-1, i, shared)
	}
}

// sharedBoundary returns the length of the longest suffix of a that is also
// a prefix of b.
func sharedBoundary(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for ; n > 0; n-- {
		if strings.HasSuffix(a, b[:n]) {
			return n
		}
	}
	return 0
}

func TestSplitInvalidInput(t *testing.T) {
	chunker, err := NewChunker()
	require.NoError(t, err)

	cfg := DefaultConfig()

	t.Run("empty text", func(t *testing.T) {
		_, err := chunker.Split(context.Background(), "", map[string]string{}, cfg)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("whitespace text", func(t *testing.T) {
		_, err := chunker.Split(context.Background(), "   \n\t  ", map[string]string{}, cfg)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("nil metadata", func(t *testing.T) {
		_, err := chunker.Split(context.Background(), "some text", nil, cfg)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := DefaultConfig()
		bad.OverlapSize = bad.ChunkSize
		_, err := chunker.Split(context.Background(), "some text", map[string]string{}, bad)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSplitSemantic(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		chunker, err := NewChunker()
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.Strategy = StrategySemantic

		_, err = chunker.Split(context.Background(), "One. Two. Three.", map[string]string{}, cfg)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("cuts at the embedding distance spike", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			// First three sentence groups share a direction, the last two
			// are orthogonal to them. The single large gap is the boundary.
			vectors := make([][]float32, len(texts))
			for i := range texts {
				if i < 3 {
					vectors[i] = []float32{1, 0}
				} else {
					vectors[i] = []float32{0, 1}
				}
			}
			return vectors, nil
		}

		chunker, err := NewChunker(WithEmbedder(embedder))
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.Strategy = StrategySemantic
		cfg.Threshold = ThresholdPercentile

		text := "Cats purr. Cats sleep. Cats hunt. Stocks rose. Markets closed."

		chunks, err := chunker.Split(context.Background(), text, map[string]string{}, cfg)
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		assert.Contains(t, chunks[0].Content, "Cats hunt.")
		assert.Contains(t, chunks[1].Content, "Stocks rose.")
		assert.Equal(t, "0", chunks[0].Metadata[core.MetadataKeyChunkIndex])
		assert.Equal(t, "1", chunks[1].Metadata[core.MetadataKeyChunkIndex])
	})

	t.Run("single sentence skips embedding", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		chunker, err := NewChunker(WithEmbedder(embedder))
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.Strategy = StrategySemantic

		chunks, err := chunker.Split(context.Background(), "Just one sentence.", map[string]string{}, cfg)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("embedding failure wraps chunking error", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding service unavailable")
		}

		chunker, err := NewChunker(WithEmbedder(embedder))
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.Strategy = StrategySemantic

		_, err = chunker.Split(context.Background(), "One. Two. Three.", map[string]string{}, cfg)
		assert.ErrorIs(t, err, ErrChunkingFailed)
	})
}

func TestBreakpointThreshold(t *testing.T) {
	distances := []float64{0.1, 0.1, 0.1, 0.1, 0.9}

	t.Run("percentile", func(t *testing.T) {
		threshold := breakpointThreshold(distances, ThresholdPercentile)
		assert.Greater(t, threshold, 0.1)
		assert.LessOrEqual(t, threshold, 0.9)
	})

	t.Run("standard deviation", func(t *testing.T) {
		uniform := []float64{0.2, 0.2, 0.2}
		threshold := breakpointThreshold(uniform, ThresholdStandardDeviation)
		assert.InDelta(t, 0.2, threshold, 1e-9)
	})

	t.Run("interquartile", func(t *testing.T) {
		spread := []float64{0.1, 0.2, 0.3, 0.4, 0.9}
		threshold := breakpointThreshold(spread, ThresholdInterquartile)
		assert.Greater(t, threshold, mean(spread))
	})

	t.Run("empty distances", func(t *testing.T) {
		assert.Zero(t, breakpointThreshold(nil, ThresholdPercentile))
	})
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, percentile(values, 0), 1e-9)
	assert.InDelta(t, 4.0, percentile(values, 100), 1e-9)
	assert.InDelta(t, 2.5, percentile(values, 50), 1e-9)
}

func TestGradient(t *testing.T) {
	series := []float64{0, 1, 4, 9}
	got := gradient(series)

	require.Len(t, got, 4)
	assert.InDelta(t, 1.0, got[0], 1e-9)
	assert.InDelta(t, 2.0, got[1], 1e-9)
	assert.InDelta(t, 4.0, got[2], 1e-9)
	assert.InDelta(t, 5.0, got[3], 1e-9)
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
	})
}
