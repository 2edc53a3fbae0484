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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Metadata must not be nil
//
// NOT validated:
//   - Presence of specific metadata keys (assignment of document_id and
//     chunk_index is the chunker's and ingestion service's responsibility)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Metadata == nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNilMetadata)
	}

	return nil
}

// ValidateVectorRecord validates a VectorRecord according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Vector must not be empty
//
// Vector dimension is checked by the index at insert time, not here: the
// expected dimension is a property of the index instance, not of the record.
func ValidateVectorRecord(record *VectorRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVectorRecord)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyContent)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptyVector)
	}

	return nil
}
