package ingestion

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/poiesic/docqa/ai"
	"github.com/poiesic/docqa/core"
	"github.com/poiesic/docqa/storage"
)

// WriteReport summarizes the outcome of a batch write.
type WriteReport struct {
	// TotalChunks is how many chunks the write was asked to store.
	TotalChunks int

	// ProcessedChunks is how many chunks were embedded and stored.
	ProcessedChunks int

	// Failed is true only when nothing at all was written.
	Failed bool
}

// BatchWriter embeds chunks and stores them in the vector index.
// A failed batch is retried once as smaller sub-batches so a single bad
// chunk cannot sink its whole batch; sub-batches that still fail are
// logged and skipped.
type BatchWriter struct {
	index    storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewBatchWriter creates a batch writer over the given index and embedder.
func NewBatchWriter(index storage.VectorIndex, embedder ai.Embedder) *BatchWriter {
	return &BatchWriter{
		index:    index,
		embedder: embedder,
		logger:   slog.Default().With("component", "batch_writer"),
	}
}

// Write embeds and stores chunks in batches of batchSize, falling back to
// subBatchSize pieces when a batch fails. It only returns an error for a
// context cancellation; partial failure is reported through the report.
func (w *BatchWriter) Write(ctx context.Context, chunks []*core.Chunk, batchSize, subBatchSize int) (*WriteReport, error) {
	report := &WriteReport{TotalChunks: len(chunks)}

	if len(chunks) == 0 {
		return report, nil
	}
	if batchSize <= 0 {
		batchSize = len(chunks)
	}
	if subBatchSize <= 0 || subBatchSize > batchSize {
		subBatchSize = batchSize
	}

	for start := 0; start < len(chunks); start += batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := w.writeBatch(ctx, batch); err == nil {
			report.ProcessedChunks += len(batch)
			continue
		}

		w.logger.Warn("batch write failed, retrying in sub-batches",
			"batch_start", start,
			"batch_size", len(batch))

		for subStart := 0; subStart < len(batch); subStart += subBatchSize {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			subEnd := subStart + subBatchSize
			if subEnd > len(batch) {
				subEnd = len(batch)
			}
			sub := batch[subStart:subEnd]

			if err := w.writeBatch(ctx, sub); err != nil {
				w.logger.Error("sub-batch write failed, skipping chunks",
					"error", err,
					"chunks_lost", len(sub))
				continue
			}
			report.ProcessedChunks += len(sub)
		}
	}

	report.Failed = report.ProcessedChunks == 0 && report.TotalChunks > 0

	w.logger.Info("write complete",
		"total", report.TotalChunks,
		"processed", report.ProcessedChunks,
		"failed", report.Failed)

	return report, nil
}

// writeBatch embeds one batch and stores the records atomically.
func (w *BatchWriter) writeBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	vectors, err := w.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	records := make([]*core.VectorRecord, len(batch))
	for i, chunk := range batch {
		index, _ := strconv.Atoi(chunk.Metadata[core.MetadataKeyChunkIndex])
		records[i] = &core.VectorRecord{
			Id:       core.ChunkRecordID(chunk.DocumentID(), index, chunk.Content),
			Vector:   vectors[i],
			Content:  chunk.Content,
			Metadata: chunk.Metadata,
		}
	}

	return w.index.Add(ctx, records...)
}
