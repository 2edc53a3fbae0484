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


package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/poiesic/docqa/ai"
)

const (
	// Documents above this size are summarized chunk by chunk before the
	// structural analysis. Roughly 20k tokens at 4 chars per token.
	largeDocumentChars = 80000

	largeChunkSize    = 15000
	largeChunkOverlap = 1000

	// Content below this size is not worth a model round trip.
	minAnalyzableChars = 50

	analysisMaxAttempts = 3
)

// ErrEmptyDocument indicates the document had no content to summarize.
var ErrEmptyDocument = errors.New("document content cannot be empty")

// DocumentStructure is the structured analysis extracted from a document.
type DocumentStructure struct {
	Title               string            `json:"title"`
	MainIdea            string            `json:"main_idea"`
	KeyConcepts         []string          `json:"key_concepts"`
	TermsAndDefinitions map[string]string `json:"terms_and_definitions"`
	MainPoints          []string          `json:"main_points"`
	Conclusion          string            `json:"conclusion"`
}

const analysisSystemPrompt = `You are an expert document analyst. Analyze the document and extract its key structural elements.
The response should be in the same language as the input document.

Instructions:
- Identify the main title or create a descriptive one if none exists
- Extract the central theme and main idea in 2-3 sentences
- List 5-10 key concepts or topics discussed
- Identify important terms, acronyms, or specialized vocabulary with their meanings
- Extract 5-7 main points or arguments
- Identify any conclusion or final thoughts

Respond with a JSON object in exactly this format:
{"title": "<string>", "main_idea": "<string>", "key_concepts": ["<string>"], "terms_and_definitions": {"<term>": "<definition>"}, "main_points": ["<string>"], "conclusion": "<string>"}

Do not include any other text in your response.`

const chunkSummaryPromptFormat = `Summarize the following document chunk while preserving all important information:

%s

Provide a comprehensive summary that includes:
- Main topics covered in this section
- Key facts, concepts, or arguments
- Important details or data
- Any conclusions or findings

IMPORTANT: The summary should be in the same language as the input chunk.
Summary:`

const combineSummariesPromptFormat = `You are combining multiple summaries of chunks from the same document. Create a comprehensive, unified summary.

Document chunk summaries:
%s

Instructions:
- Combine all chunk summaries into one cohesive summary
- Eliminate redundancy while preserving all important information
- Maintain logical flow and structure
- Keep the same language as the original summaries
- Ensure all key concepts and main points are included

IMPORTANT: The final summary should be in the same language as the input summaries.
Unified Summary:`

// Summarizer produces markdown summaries of uploaded documents.
type Summarizer struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewSummarizer creates a document summarizer.
func NewSummarizer(generator ai.Generator) *Summarizer {
	return &Summarizer{
		generator: generator,
		logger:    slog.Default().With("component", "summarizer"),
	}
}

// Summarize analyzes a document and renders the analysis as markdown.
// It degrades instead of failing: when the analysis cannot be obtained the
// result is a content-preview summary, so callers always get usable text.
// Only empty input is an error.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyDocument
	}

	if len(trimmed) < minAnalyzableChars {
		s.logger.Warn("document too short for analysis, echoing content")
		return fmt.Sprintf("**Summary:** %s", trimmed), nil
	}

	var (
		analysis *DocumentStructure
		err      error
	)

	if len(content) <= largeDocumentChars {
		analysis, err = s.analyze(ctx, content)
	} else {
		s.logger.Info("large document, summarizing in chunks", "chars", len(content))
		analysis, err = s.analyzeLarge(ctx, content)
	}

	if err != nil {
		s.logger.Error("document analysis failed, falling back to preview", "error", err)
		return previewSummary(trimmed), nil
	}

	s.logger.Info("document analyzed",
		"title", analysis.Title,
		"key_concepts", len(analysis.KeyConcepts),
		"main_points", len(analysis.MainPoints))

	return renderMarkdown(analysis), nil
}

// analyze runs the structural analysis over the full document content.
func (s *Summarizer) analyze(ctx context.Context, content string) (*DocumentStructure, error) {
	userPrompt := "Document Content:\n" + content

	var lastErr error
	for attempt := 1; attempt <= analysisMaxAttempts; attempt++ {
		response, err := s.generator.GenerateJSON(ctx, analysisSystemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			s.logger.Error("analysis generation failed", "attempt", attempt, "error", err)
			continue
		}

		var analysis DocumentStructure
		if err := json.Unmarshal([]byte(response), &analysis); err != nil {
			lastErr = err
			s.logger.Warn("unparseable analysis", "attempt", attempt, "error", err)
			continue
		}

		return &analysis, nil
	}

	return nil, fmt.Errorf("document analysis failed after %d attempts: %w", analysisMaxAttempts, lastErr)
}

// analyzeLarge splits an oversized document, summarizes each piece, folds
// the summaries into one, and analyzes that instead. A failed piece is
// replaced with a placeholder rather than aborting the run.
func (s *Summarizer) analyzeLarge(ctx context.Context, content string) (*DocumentStructure, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(largeChunkSize),
		textsplitter.WithChunkOverlap(largeChunkOverlap),
	)

	pieces, err := splitter.SplitText(content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("split document for summarization", "pieces", len(pieces))

	summaries := make([]string, 0, len(pieces))
	for i, piece := range pieces {
		summary, err := s.generator.GenerateText(ctx, fmt.Sprintf(chunkSummaryPromptFormat, piece))
		if err != nil {
			s.logger.Error("piece summarization failed", "piece", i+1, "error", err)
			summaries = append(summaries, fmt.Sprintf("[Summary failed for chunk %d]", i+1))
			continue
		}
		summaries = append(summaries, summary)
	}

	unified, err := s.generator.GenerateText(ctx,
		fmt.Sprintf(combineSummariesPromptFormat, strings.Join(summaries, "\n\n")))
	if err != nil {
		return nil, err
	}

	return s.analyze(ctx, unified)
}

// renderMarkdown assembles the structured analysis into a readable summary.
func renderMarkdown(analysis *DocumentStructure) string {
	var parts []string

	if analysis.Title != "" {
		parts = append(parts, fmt.Sprintf("**%s**\n", analysis.Title))
	}
	if analysis.MainIdea != "" {
		parts = append(parts, analysis.MainIdea+"\n")
	}

	if len(analysis.MainPoints) > 0 {
		parts = append(parts, "**Key Points:**")
		for i, point := range analysis.MainPoints {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, point))
		}
		parts = append(parts, "")
	}

	if len(analysis.KeyConcepts) > 0 {
		parts = append(parts, fmt.Sprintf("**Key Concepts:** %s\n", strings.Join(analysis.KeyConcepts, ", ")))
	}

	if len(analysis.TermsAndDefinitions) > 0 {
		parts = append(parts, "**Important Terms:**")
		for _, term := range sortedKeys(analysis.TermsAndDefinitions) {
			parts = append(parts, fmt.Sprintf("• **%s**: %s", term, analysis.TermsAndDefinitions[term]))
		}
		parts = append(parts, "")
	}

	if analysis.Conclusion != "" {
		parts = append(parts, fmt.Sprintf("**Conclusion:** %s", analysis.Conclusion))
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// previewSummary is the fallback when analysis is unavailable.
func previewSummary(content string) string {
	if len(content) > 500 {
		return fmt.Sprintf("**Summary:** Document analysis failed. Content preview: %s...", content[:500])
	}
	return fmt.Sprintf("**Summary:** Document analysis failed. Content preview: %s", content)
}

// sortedKeys orders the term list so rendered summaries are stable.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
