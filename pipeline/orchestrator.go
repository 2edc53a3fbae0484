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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/docqa/core"
	"github.com/poiesic/docqa/search"
)

// DefaultTopK is how many documents a run retrieves when the caller does
// not specify a count.
const DefaultTopK = 5

// Result is the outcome of one pipeline run.
type Result struct {
	// Answer is the user-facing answer. Always non-empty.
	Answer string

	// Sources names the documents the answer was grounded in, without
	// duplicates. Empty when no documents were used.
	Sources []string
}

// Orchestrator runs a query through moderation, retrieval, relevance
// judgment and answer generation.
type Orchestrator struct {
	gate      *Gate
	retriever *search.Retriever
	judge     *Judge
	answerer  *Answerer
	topK      int
	logger    *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithTopK sets the default number of documents retrieved per query.
func WithTopK(k int) OrchestratorOption {
	return func(o *Orchestrator) error {
		if k < 1 {
			k = DefaultTopK
		}
		o.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a pipeline orchestrator.
func NewOrchestrator(gate *Gate, retriever *search.Retriever, judge *Judge, answerer *Answerer, opts ...OrchestratorOption) (*Orchestrator, error) {
	o := &Orchestrator{
		gate:      gate,
		retriever: retriever,
		judge:     judge,
		answerer:  answerer,
		topK:      DefaultTopK,
		logger:    slog.Default().With("component", "orchestrator"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Invoke runs the full pipeline for a query. It never returns an error:
// stage failures and panics become a terminal error answer with empty
// sources, with the cause recorded on the state for observability.
// k values below 1 fall back to the orchestrator's configured TopK.
func (o *Orchestrator) Invoke(ctx context.Context, query string, k int) *Result {
	if k < 1 {
		k = o.topK
	}

	state := newState(query)

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline panicked", "panic", r)
			state.Err = fmt.Errorf("panic: %v", r)
			state.finish(fmt.Sprintf(processingErrorFormat, r))
		}
	}()

	o.run(ctx, state, k)

	if !state.IsTerminal {
		// Should be unreachable; treat as a processing failure.
		state.finish(fmt.Sprintf(processingErrorFormat, "pipeline did not terminate"))
	}

	result := &Result{Answer: state.Answer}
	if state.IsRelevant {
		result.Sources = dedupeSources(state.Sources)
	} else {
		result.Sources = []string{}
	}

	return result
}

// run drives the state machine from start to a terminal state.
func (o *Orchestrator) run(ctx context.Context, state *State, k int) {
	kind := KindStart

	for !state.IsTerminal {
		o.logger.Debug("pipeline transition", "state", kind.String())

		switch kind {
		case KindStart:
			if o.gate.Check(ctx, state.Input) {
				state.Moderated = true
				kind = KindModerationPassed
			} else {
				kind = KindModerationFailed
			}

		case KindModerationFailed:
			state.finish(ModerationBlockedMessage)

		case KindModerationPassed:
			kind = KindRetrieval

		case KindRetrieval:
			results := o.retriever.Search(ctx, state.Input, k)
			for _, r := range results {
				state.Documents = append(state.Documents, r.Content)
				if source := r.Metadata[core.MetadataKeySource]; source != "" {
					state.Sources = append(state.Sources, source)
				}
			}
			if o.judge.Relevant(ctx, state.Input, state.Documents) {
				state.IsRelevant = true
				kind = KindRelevancePassed
			} else {
				kind = KindRelevanceFailed
			}

		case KindRelevanceFailed:
			state.finish(NoRelevantInformationMessage)

		case KindRelevancePassed:
			state.finish(o.answerer.Answer(ctx, state.Input, state.Documents))
			kind = KindAnswerGenerated

		case KindAnswerGenerated, KindEnd:
			state.IsTerminal = true

		default:
			state.Err = fmt.Errorf("unknown pipeline state %d", kind)
			state.finish(fmt.Sprintf(processingErrorFormat, state.Err))
		}
	}
}

// dedupeSources collapses the source list into a sorted set.
func dedupeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	unique := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}
	sort.Strings(unique)
	return unique
}
