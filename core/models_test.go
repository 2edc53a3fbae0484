package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("the refund policy")
		id2 := IDFromContent("the refund policy")
		assert.Equal(t, id1, id2)
	})

	t.Run("distinct content produces distinct IDs", func(t *testing.T) {
		id1 := IDFromContent("alpha")
		id2 := IDFromContent("beta")
		assert.NotEqual(t, id1, id2)
	})
}

func TestChunkRecordID(t *testing.T) {
	t.Run("same content in different documents does not collide", func(t *testing.T) {
		id1 := ChunkRecordID("doc-a", 0, "identical text")
		id2 := ChunkRecordID("doc-b", 0, "identical text")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("same content at different positions does not collide", func(t *testing.T) {
		id1 := ChunkRecordID("doc-a", 0, "identical text")
		id2 := ChunkRecordID("doc-a", 1, "identical text")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("deterministic", func(t *testing.T) {
		id1 := ChunkRecordID("doc-a", 3, "text")
		id2 := ChunkRecordID("doc-a", 3, "text")
		assert.Equal(t, id1, id2)
	})
}

func TestNewChunk(t *testing.T) {
	parent := map[string]string{"source": "a.txt", "document_id": "d1"}

	chunk := NewChunk("hello", parent, map[string]string{MetadataKeyChunkIndex: "0"})

	t.Run("copies parent metadata", func(t *testing.T) {
		assert.Equal(t, "a.txt", chunk.Metadata[MetadataKeySource])
		assert.Equal(t, "d1", chunk.Metadata[MetadataKeyDocumentID])
		assert.Equal(t, "0", chunk.Metadata[MetadataKeyChunkIndex])
	})

	t.Run("parent map is not modified", func(t *testing.T) {
		assert.Len(t, parent, 2)
		_, ok := parent[MetadataKeyChunkIndex]
		assert.False(t, ok)
	})

	t.Run("mutating chunk metadata does not leak to parent", func(t *testing.T) {
		chunk.Metadata["extra"] = "x"
		_, ok := parent["extra"]
		assert.False(t, ok)
	})

	t.Run("document id accessor", func(t *testing.T) {
		assert.Equal(t, "d1", chunk.DocumentID())
	})

	t.Run("each call allocates a distinct chunk", func(t *testing.T) {
		other := NewChunk("hello", parent, nil)
		assert.NotSame(t, chunk, other)
		other.Metadata["only"] = "here"
		_, ok := chunk.Metadata["only"]
		assert.False(t, ok)
	})
}
