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


package ingestion

import "errors"

var (
	// ErrCompleteWriteFailure indicates that no chunk of a document could
	// be written.
	ErrCompleteWriteFailure = errors.New("no chunks could be written")

	// ErrInconsistentDeletion indicates that a document was removed from
	// primary storage but its vectors could not be cleaned up.
	ErrInconsistentDeletion = errors.New("document deleted but vector cleanup failed")

	// ErrPipelineClosed indicates the ingestion pipeline has been released.
	ErrPipelineClosed = errors.New("ingestion pipeline is closed")
)
