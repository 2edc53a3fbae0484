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


// Package storage provides the storage abstraction layer for docqa.
//
// This package defines the VectorIndex interface that decouples vector
// persistence and similarity search from the ingestion and retrieval
// logic. It allows for different storage backends (BadgerDB, in-memory,
// etc.) to be used interchangeably.
//
// The BadgerDB implementation lives in the badger sub-package.
package storage
