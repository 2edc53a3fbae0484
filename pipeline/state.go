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

// MessageRole identifies who produced a conversation message.
type MessageRole string

const (
	RoleHuman MessageRole = "human"
	RoleAI    MessageRole = "ai"
)

// Message is one entry in the conversation trace of a pipeline run.
type Message struct {
	Role    MessageRole
	Content string
}

// StateKind identifies where a pipeline run currently is.
type StateKind int

const (
	KindStart StateKind = iota
	KindModerationPassed
	KindModerationFailed
	KindRetrieval
	KindRelevancePassed
	KindRelevanceFailed
	KindAnswerGenerated
	KindEnd
)

// String returns the kind name for logging.
func (k StateKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindModerationPassed:
		return "moderation_passed"
	case KindModerationFailed:
		return "moderation_failed"
	case KindRetrieval:
		return "retrieval"
	case KindRelevancePassed:
		return "relevance_passed"
	case KindRelevanceFailed:
		return "relevance_failed"
	case KindAnswerGenerated:
		return "answer_generated"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// State carries everything a single pipeline run accumulates. One State
// is created per Invoke and never shared between runs.
type State struct {
	// Input is the user's original query.
	Input string

	// Messages is the conversation trace of this run.
	Messages []Message

	// Documents holds the retrieved chunk contents.
	Documents []string

	// Sources holds the source identifiers of the retrieved chunks,
	// in retrieval order and possibly with duplicates.
	Sources []string

	// Moderated is true once the query passed moderation.
	Moderated bool

	// IsRelevant is the judge's verdict on the retrieved documents.
	IsRelevant bool

	// Answer is the final user-facing answer.
	Answer string

	// Err records the cause when a stage failed. The run still produces
	// an answer; this field exists for observability.
	Err error

	// IsTerminal is true once the run reached a final answer.
	IsTerminal bool
}

// newState initializes a run state for a query.
func newState(query string) *State {
	return &State{
		Input:    query,
		Messages: []Message{{Role: RoleHuman, Content: query}},
	}
}

// finish marks the run terminal with the given answer and records it on
// the conversation trace.
func (s *State) finish(answer string) {
	s.Answer = answer
	s.IsTerminal = true
	s.Messages = append(s.Messages, Message{Role: RoleAI, Content: answer})
}
