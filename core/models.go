package core

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for vector records.
// It is generated deterministically from record content and provenance.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical input always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkRecordID derives the vector record ID for a chunk from its parent
// document ID, its position, and its content. Including position and document
// ID keeps identical text in different documents (or repeated within one
// document) from colliding.
func ChunkRecordID(documentID string, chunkIndex int, content string) ID {
	return IDFromContent(documentID + "\x00" + strconv.Itoa(chunkIndex) + "\x00" + content)
}

// Well-known metadata keys carried on chunks and vector records.
const (
	// MetadataKeyDocumentID tags every chunk with the ID of its parent
	// document, enabling bulk deletion of all chunks for one document.
	MetadataKeyDocumentID = "document_id"

	// MetadataKeyChunkIndex records the chunk's position within its document,
	// assigned densely starting at 0 in document order.
	MetadataKeyChunkIndex = "chunk_index"

	// MetadataKeySource names the original file or source the document came
	// from. Used to report answer provenance.
	MetadataKeySource = "source"
)

// Chunk is a contiguous, metadata-tagged fragment of a document used as a
// retrieval unit. Metadata is copied-then-extended from the parent document's
// metadata at creation time and must not be mutated afterwards.
type Chunk struct {
	Content  string
	Metadata map[string]string
}

// NewChunk builds a chunk whose metadata is a copy of parent extended with
// extra. The parent map is never modified. Extra keys win on collision.
func NewChunk(content string, parent map[string]string, extra map[string]string) *Chunk {
	merged := make(map[string]string, len(parent)+len(extra))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return &Chunk{Content: content, Metadata: merged}
}

// DocumentID returns the chunk's parent document ID, or "" if untagged.
func (c *Chunk) DocumentID() string {
	return c.Metadata[MetadataKeyDocumentID]
}

// VectorRecord is an embedded chunk stored in a vector index.
// The vector dimension is fixed per index instance.
type VectorRecord struct {
	Id       ID
	Vector   []float32
	Content  string
	Metadata map[string]string
}

// ScoredRecord is a vector record paired with a similarity score from a
// nearest-neighbor search. Higher scores mean higher similarity.
type ScoredRecord struct {
	Record *VectorRecord
	Score  float32
}
