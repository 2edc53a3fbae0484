package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docqa/ai/mock"
	"github.com/poiesic/docqa/chunking"
	"github.com/poiesic/docqa/core"
	"github.com/poiesic/docqa/storage/badger"
)

func newTestService(t *testing.T, embedder *mock.MockEmbedder) (*Service, *badger.Index) {
	t.Helper()

	index, err := badger.NewMemoryIndex(mock.DefaultDimension)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	chunker, err := chunking.NewChunker(chunking.WithEmbedder(embedder))
	require.NoError(t, err)

	cfg := chunking.DefaultConfig()
	cfg.ChunkSize = 100
	cfg.OverlapSize = 10

	service, err := NewService(chunker, NewBatchWriter(index, embedder), index, cfg)
	require.NoError(t, err)

	return service, index
}

func TestIngestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a document id when absent", func(t *testing.T) {
		service, index := newTestService(t, mock.NewMockEmbedder())

		report, err := service.IngestDocument(ctx, "Refunds are accepted within thirty days.", map[string]string{
			core.MetadataKeySource: "policy.txt",
		})
		require.NoError(t, err)
		assert.False(t, report.Failed)

		all, err := index.All(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, all)

		docID := all[0].Metadata[core.MetadataKeyDocumentID]
		assert.NotEmpty(t, docID)
		for _, record := range all {
			assert.Equal(t, docID, record.Metadata[core.MetadataKeyDocumentID])
			assert.Equal(t, "policy.txt", record.Metadata[core.MetadataKeySource])
		}
	})

	t.Run("keeps a caller-provided document id", func(t *testing.T) {
		service, index := newTestService(t, mock.NewMockEmbedder())

		_, err := service.IngestDocument(ctx, "Some document text.", map[string]string{
			core.MetadataKeyDocumentID: "doc-42",
		})
		require.NoError(t, err)

		all, err := index.All(ctx)
		require.NoError(t, err)
		for _, record := range all {
			assert.Equal(t, "doc-42", record.Metadata[core.MetadataKeyDocumentID])
		}
	})

	t.Run("does not mutate caller metadata", func(t *testing.T) {
		service, _ := newTestService(t, mock.NewMockEmbedder())

		metadata := map[string]string{core.MetadataKeySource: "a.txt"}
		_, err := service.IngestDocument(ctx, "Some document text.", metadata)
		require.NoError(t, err)

		assert.Len(t, metadata, 1)
	})

	t.Run("surfaces complete write failure", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding service down")
		}
		service, _ := newTestService(t, embedder)

		report, err := service.IngestDocument(ctx, "Some document text.", map[string]string{})
		require.ErrorIs(t, err, ErrCompleteWriteFailure)
		require.NotNil(t, report)
		assert.True(t, report.Failed)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		service, _ := newTestService(t, mock.NewMockEmbedder())

		_, err := service.IngestDocument(ctx, "   ", map[string]string{})
		assert.ErrorIs(t, err, chunking.ErrInvalidInput)
	})
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	service, index := newTestService(t, mock.NewMockEmbedder())

	_, err := service.IngestDocument(ctx, "Document one text.", map[string]string{
		core.MetadataKeyDocumentID: "doc-1",
	})
	require.NoError(t, err)
	_, err = service.IngestDocument(ctx, "Document two text.", map[string]string{
		core.MetadataKeyDocumentID: "doc-2",
	})
	require.NoError(t, err)

	count, err := service.DeleteDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Positive(t, count)

	all, err := index.All(ctx)
	require.NoError(t, err)
	for _, record := range all {
		assert.Equal(t, "doc-2", record.Metadata[core.MetadataKeyDocumentID])
	}
}

func TestDeleteDocumentWithPrimary(t *testing.T) {
	ctx := context.Background()

	t.Run("primary failure stops before vector cleanup", func(t *testing.T) {
		service, index := newTestService(t, mock.NewMockEmbedder())

		_, err := service.IngestDocument(ctx, "Document text.", map[string]string{
			core.MetadataKeyDocumentID: "doc-1",
		})
		require.NoError(t, err)

		primaryErr := errors.New("primary store unavailable")
		err = service.DeleteDocumentWithPrimary(ctx, "doc-1", func() error { return primaryErr })
		require.ErrorIs(t, err, primaryErr)
		assert.NotErrorIs(t, err, ErrInconsistentDeletion)

		all, err := index.All(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, all)
	})

	t.Run("vector cleanup failure is surfaced as inconsistent", func(t *testing.T) {
		service, index := newTestService(t, mock.NewMockEmbedder())

		_, err := service.IngestDocument(ctx, "Document text.", map[string]string{
			core.MetadataKeyDocumentID: "doc-1",
		})
		require.NoError(t, err)

		// Closing the index makes DeleteWhere fail after primary removal.
		require.NoError(t, index.Close())

		err = service.DeleteDocumentWithPrimary(ctx, "doc-1", func() error { return nil })
		assert.ErrorIs(t, err, ErrInconsistentDeletion)
	})

	t.Run("both sides succeed", func(t *testing.T) {
		service, index := newTestService(t, mock.NewMockEmbedder())

		_, err := service.IngestDocument(ctx, "Document text.", map[string]string{
			core.MetadataKeyDocumentID: "doc-1",
		})
		require.NoError(t, err)

		removed := false
		err = service.DeleteDocumentWithPrimary(ctx, "doc-1", func() error {
			removed = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, removed)

		all, err := index.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("processes enqueued documents", func(t *testing.T) {
		service, index := newTestService(t, mock.NewMockEmbedder())

		pipeline, err := NewPipeline(service, WithPoolSize(2))
		require.NoError(t, err)
		defer pipeline.Release()

		require.NoError(t, pipeline.Enqueue(ctx, "First document text.", map[string]string{}))
		require.NoError(t, pipeline.Enqueue(ctx, "Second document text.", map[string]string{}))
		pipeline.Wait()

		all, err := index.All(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, all)
	})

	t.Run("ingestion errors do not fail the enqueue", func(t *testing.T) {
		service, _ := newTestService(t, mock.NewMockEmbedder())

		pipeline, err := NewPipeline(service)
		require.NoError(t, err)
		defer pipeline.Release()

		// Empty text fails inside the worker, not at enqueue time.
		assert.NoError(t, pipeline.Enqueue(ctx, "", map[string]string{}))
		pipeline.Wait()
	})

	t.Run("released pipeline rejects work", func(t *testing.T) {
		service, _ := newTestService(t, mock.NewMockEmbedder())

		pipeline, err := NewPipeline(service)
		require.NoError(t, err)
		pipeline.Release()

		assert.ErrorIs(t, pipeline.Enqueue(ctx, "text", map[string]string{}), ErrPipelineClosed)
	})
}
