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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/poiesic/docqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Moderator implements ai.Moderator using an OpenAI-compatible chat model as
// a content-policy classifier constrained to a boolean JSON schema.
type Moderator struct {
	client llms.Model
	logger *slog.Logger
}

const moderationSystemPrompt = `You are a content policy classifier. Classify the user's text and return ONLY valid JSON matching this schema:

{"flagged": <boolean>}

Set "flagged" to true if the text contains hate speech, harassment, threats of violence, sexual content involving minors, or instructions for serious wrongdoing. Set it to false otherwise.

Start your response with the opening brace { and end with the closing brace }. Do not include any other text.`

// moderationVerdict is the classifier's JSON response shape.
type moderationVerdict struct {
	Flagged bool `json:"flagged"`
}

// newModerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newModerator(config *ai.Config) (*Moderator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Moderator{
		client: client,
		logger: slog.Default().With("component", "openai-moderator"),
	}, nil
}

// NewModerator creates a new moderator using the provided configuration.
//
// Returns ai.Moderator interface to enforce abstraction.
func NewModerator(config *ai.Config) (ai.Moderator, error) {
	return newModerator(config)
}

// Classify reports whether the text is flagged by the content policy.
// Malformed classifier output is retried up to 3 times before failing.
func (m *Moderator) Classify(ctx context.Context, text string) (bool, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(moderationSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	var verdict moderationVerdict
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := m.client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			m.logger.Error("moderation call failed", "attempt", attempt+1, "err", err)
			return false, err
		}

		if len(response.Choices) < 1 {
			m.logger.Warn("no choices returned from moderation model")
			return false, errNoChoices
		}

		responseText := sanitizeJSONResponse(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &verdict); err != nil {
			lastErr = err
			m.logger.Warn("error parsing moderation response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		m.logger.Error("failed to parse moderation response after retries", "err", lastErr)
		return false, lastErr
	}

	m.logger.Debug("moderation verdict", "flagged", verdict.Flagged)
	return verdict.Flagged, nil
}
