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


package chunking

import "errors"

var (
	// ErrInvalidInput indicates the text or metadata passed to Split is unusable.
	ErrInvalidInput = errors.New("invalid chunking input")

	// ErrInvalidConfig indicates the chunking configuration failed validation.
	ErrInvalidConfig = errors.New("invalid chunking config")

	// ErrChunkingFailed indicates the split operation itself failed.
	ErrChunkingFailed = errors.New("chunking failed")

	// ErrEmbedderRequired indicates the semantic strategy was requested
	// without an embedder.
	ErrEmbedderRequired = errors.New("semantic chunking requires an embedder")
)
