package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/poiesic/docqa/chunking"
	"github.com/poiesic/docqa/core"
	"github.com/poiesic/docqa/storage"
)

// Service ties chunking and batch writing together into document-level
// operations.
type Service struct {
	chunker *chunking.Chunker
	writer  *BatchWriter
	index   storage.VectorIndex
	cfg     chunking.Config
	logger  *slog.Logger
}

// NewService creates an ingestion service.
func NewService(chunker *chunking.Chunker, writer *BatchWriter, index storage.VectorIndex, cfg chunking.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		chunker: chunker,
		writer:  writer,
		index:   index,
		cfg:     cfg,
		logger:  slog.Default().With("component", "ingestion"),
	}, nil
}

// IngestDocument chunks a document and writes it to the vector index.
// A document ID is generated when the metadata does not carry one, so
// every stored chunk can be traced back to its document. Returns the
// write report together with ErrCompleteWriteFailure when nothing could
// be stored.
func (s *Service) IngestDocument(ctx context.Context, text string, metadata map[string]string) (*WriteReport, error) {
	tagged := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		tagged[k] = v
	}
	if tagged[core.MetadataKeyDocumentID] == "" {
		tagged[core.MetadataKeyDocumentID] = uuid.NewString()
	}

	chunks, err := s.chunker.Split(ctx, text, tagged, s.cfg)
	if err != nil {
		return nil, err
	}

	report, err := s.writer.Write(ctx, chunks, s.cfg.BatchSize, s.cfg.SubBatchSize)
	if err != nil {
		return report, err
	}

	if report.Failed {
		return report, fmt.Errorf("%w: document %s", ErrCompleteWriteFailure, tagged[core.MetadataKeyDocumentID])
	}

	s.logger.Info("document ingested",
		"document_id", tagged[core.MetadataKeyDocumentID],
		"chunks", report.ProcessedChunks)

	return report, nil
}

// DeleteDocument removes every chunk of a document from the vector index
// and returns how many records were removed.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	return s.index.DeleteWhere(ctx, core.MetadataKeyDocumentID, documentID)
}

// DeleteDocumentWithPrimary removes a document from primary storage and
// then cleans up its vectors. When the primary removal succeeds but the
// vector cleanup fails the system is left inconsistent, which is a
// distinct condition from an ordinary failed delete: the document looks
// gone but still answers queries. That case is surfaced as
// ErrInconsistentDeletion.
func (s *Service) DeleteDocumentWithPrimary(ctx context.Context, documentID string, removePrimary func() error) error {
	if err := removePrimary(); err != nil {
		return err
	}

	if _, err := s.DeleteDocument(ctx, documentID); err != nil {
		s.logger.Error("vector cleanup failed after primary deletion",
			"document_id", documentID,
			"error", err)
		return fmt.Errorf("%w: document %s: %w", ErrInconsistentDeletion, documentID, err)
	}

	return nil
}
