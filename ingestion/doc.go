// Package ingestion turns documents into stored, searchable vectors.
//
// The BatchWriter embeds chunks in configurable batches and degrades
// gracefully: a failed batch is retried once as smaller sub-batches, and
// sub-batches that still fail are logged and skipped so one bad chunk
// cannot sink a whole document. The Service layers document-level
// operations on top (ingest, delete, delete with primary-store
// coordination), and the Pipeline runs ingestion concurrently through a
// bounded worker pool.
package ingestion
