package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/docqa/ai/mock"
)

func TestGateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("safe content passes", func(t *testing.T) {
		gate := NewGate(mock.NewMockModerator())
		assert.True(t, gate.Check(ctx, "what time is lunch"))
	})

	t.Run("flagged content is blocked", func(t *testing.T) {
		moderator := mock.NewMockModerator()
		moderator.ClassifyFunc = func(ctx context.Context, text string) (bool, error) {
			return true, nil
		}

		gate := NewGate(moderator)
		assert.False(t, gate.Check(ctx, "something unsafe"))
	})

	t.Run("moderator failure allows the query", func(t *testing.T) {
		moderator := mock.NewMockModerator()
		moderator.ClassifyFunc = func(ctx context.Context, text string) (bool, error) {
			return false, errors.New("service down")
		}

		gate := NewGate(moderator)
		assert.True(t, gate.Check(ctx, "anything"))
	})
}

func TestJudgeRelevant(t *testing.T) {
	ctx := context.Background()

	t.Run("empty documents are not relevant and skip the model", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		judge := NewJudge(generator)

		assert.False(t, judge.Relevant(ctx, "query", nil))
		assert.Zero(t, generator.CallCount())
	})

	t.Run("accepts a positive verdict", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateJSONFunc = func(ctx context.Context, system, user string) (string, error) {
			assert.Contains(t, user, "User Query: query")
			assert.Contains(t, user, "doc content")
			return `{"relevant": true}`, nil
		}

		judge := NewJudge(generator)
		assert.True(t, judge.Relevant(ctx, "query", []string{"doc content"}))
	})

	t.Run("retries past a malformed verdict", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		calls := 0
		generator.GenerateJSONFunc = func(ctx context.Context, system, user string) (string, error) {
			calls++
			if calls == 1 {
				return "not json at all", nil
			}
			return `{"relevant": true}`, nil
		}

		judge := NewJudge(generator)
		assert.True(t, judge.Relevant(ctx, "query", []string{"doc"}))
		assert.Equal(t, 2, calls)
	})

	t.Run("persistent garbage fails closed", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateJSONFunc = func(ctx context.Context, system, user string) (string, error) {
			return "garbage", nil
		}

		judge := NewJudge(generator)
		assert.False(t, judge.Relevant(ctx, "query", []string{"doc"}))
		assert.Equal(t, relevanceMaxAttempts, generator.CallCount())
	})

	t.Run("persistent errors fail closed", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateJSONFunc = func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("model unavailable")
		}

		judge := NewJudge(generator)
		assert.False(t, judge.Relevant(ctx, "query", []string{"doc"}))
	})
}

func TestAnswererAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("no documents short-circuits", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		answerer := NewAnswerer(generator)

		assert.Equal(t, NoDocumentsMessage, answerer.Answer(ctx, "query", nil))
		assert.Zero(t, generator.CallCount())
	})

	t.Run("prompt carries context, question and language", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateTextFunc = func(ctx context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "the document body")
			assert.Contains(t, prompt, "What is the refund policy?")
			assert.Contains(t, prompt, "English")
			assert.Contains(t, prompt, NotInContextMessage)
			return "the answer", nil
		}

		answerer := NewAnswerer(generator)
		got := answerer.Answer(ctx, "What is the refund policy?", []string{"the document body"})
		assert.Equal(t, "the answer", got)
	})

	t.Run("generation failure becomes an error answer", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateTextFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model unavailable")
		}

		answerer := NewAnswerer(generator)
		got := answerer.Answer(ctx, "query", []string{"doc"})
		assert.Equal(t, fmt.Sprintf(generationErrorFormat, errors.New("model unavailable")), got)
	})
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "English", detectLanguage(""))
	assert.Equal(t, "English", detectLanguage("What is the refund policy for returned items?"))
	assert.Equal(t, "Russian", detectLanguage("Мы хотели бы узнать, какие именно правила возврата товаров действуют в вашем магазине и можно ли вернуть этот товар без чека."))
}

func TestStateKindString(t *testing.T) {
	assert.Equal(t, "start", KindStart.String())
	assert.Equal(t, "moderation_failed", KindModerationFailed.String())
	assert.Equal(t, "end", KindEnd.String())
	assert.Equal(t, "unknown", StateKind(99).String())
}
