package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/poiesic/docqa/ai"
)

const answerPromptFormat = `You are a helpful AI assistant that answers questions based on the provided document content.

Context from documents:
%s

User Question: %s

Instructions:
- You must always answer in the same language as the user's question, regardless of the language of the context.
- User's question is in %s language
- Answer the question based only on the provided context
- If the answer cannot be found in the context, say "%s"
- Be concise but comprehensive in your response
- If referencing specific information, try to mention which document it came from if that information is available
- Maintain a helpful and professional tone
- Use the document content to provide accurate and detailed answers

Answer:`

// Answerer turns a query and its relevant documents into the final answer.
// It never returns an error: a failed generation becomes an apologetic
// answer so the pipeline always has something to say.
type Answerer struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewAnswerer creates an answer generator.
func NewAnswerer(generator ai.Generator) *Answerer {
	return &Answerer{
		generator: generator,
		logger:    slog.Default().With("component", "answerer"),
	}
}

// Answer generates an answer grounded in the given documents.
func (a *Answerer) Answer(ctx context.Context, query string, documents []string) string {
	if len(documents) == 0 {
		a.logger.Warn("no documents available for answer generation")
		return NoDocumentsMessage
	}

	prompt := fmt.Sprintf(answerPromptFormat,
		strings.Join(documents, "\n\n"),
		query,
		detectLanguage(query),
		NotInContextMessage)

	answer, err := a.generator.GenerateText(ctx, prompt)
	if err != nil {
		a.logger.Error("answer generation failed", "error", err)
		return fmt.Sprintf(generationErrorFormat, err)
	}

	a.logger.Info("answer generated", "query_len", len(query), "documents", len(documents))

	return answer
}

// detectLanguage names the language of the query so the model can be told
// to answer in kind. Unrecognizable input defaults to English.
func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return "English"
	}

	name := whatlanggo.Detect(text).Lang.String()
	if name == "" {
		return "English"
	}
	return name
}
