package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/docqa/ai"
)

const (
	relevanceMaxAttempts = 3

	relevanceSystemPrompt = `You are an expert at evaluating document relevance.

Given a user query and retrieved documents, determine if the documents contain information relevant to answering the query.

Evaluation criteria:
- Do the documents contain information that can help answer the user's question?
- Is there any meaningful connection between the query and document content?
- Consider partial relevance as still relevant

Respond with a JSON object in exactly this format:
{"relevant": <boolean>}

Do not include any other text in your response.`
)

// relevanceVerdict is the judge's structured response.
type relevanceVerdict struct {
	Relevant bool `json:"relevant"`
}

// Judge decides whether retrieved documents can answer a query.
// Unlike moderation, the judge fails closed: with no documents or an
// unusable verdict it reports not relevant, so the user gets the honest
// "nothing found" message instead of an answer hallucinated from noise.
type Judge struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewJudge creates a relevance judge.
func NewJudge(generator ai.Generator) *Judge {
	return &Judge{
		generator: generator,
		logger:    slog.Default().With("component", "relevance_judge"),
	}
}

// Relevant reports whether the documents can help answer the query.
// An empty document set is not relevant and skips the model call.
func (j *Judge) Relevant(ctx context.Context, query string, documents []string) bool {
	if len(documents) == 0 {
		j.logger.Info("no documents for relevance check")
		return false
	}

	var b strings.Builder
	b.WriteString("User Query: ")
	b.WriteString(query)
	b.WriteString("\n\nRetrieved Documents:\n")
	b.WriteString(strings.Join(documents, "\n\n"))

	userPrompt := b.String()

	for attempt := 1; attempt <= relevanceMaxAttempts; attempt++ {
		response, err := j.generator.GenerateJSON(ctx, relevanceSystemPrompt, userPrompt)
		if err != nil {
			j.logger.Error("relevance check failed", "attempt", attempt, "error", err)
			continue
		}

		var verdict relevanceVerdict
		if err := json.Unmarshal([]byte(response), &verdict); err != nil {
			j.logger.Warn("unparseable relevance verdict", "attempt", attempt, "error", err)
			continue
		}

		j.logger.Debug("relevance verdict", "relevant", verdict.Relevant)
		return verdict.Relevant
	}

	j.logger.Error("relevance check exhausted attempts, treating as not relevant")
	return false
}
