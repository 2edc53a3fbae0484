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


// Package ai provides abstractions for the AI capabilities used by docqa.
//
// This package defines interfaces for text embedding, text generation, and
// content moderation. It follows the dependency inversion principle: the
// chunking, ingestion, retrieval, and pipeline packages depend on these
// abstractions rather than on any concrete model client.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces free-form or JSON-constrained completions
//   - Moderator: classifies text against a content policy
//   - Provider: aggregates the three for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockGenerator, ...) return CONCRETE types to enable behavior
// injection via function fields and call-count assertions.
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com"),
//	    ai.WithToken(apiKey),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "What is the refund policy?")
package ai
