package pipeline

import (
	"context"
	"log/slog"

	"github.com/poiesic/docqa/ai"
)

// Gate screens queries through content moderation before any retrieval
// happens. Moderation is advisory: when the moderator itself fails, the
// query is allowed through rather than blocking all traffic on a
// moderation outage.
type Gate struct {
	moderator ai.Moderator
	logger    *slog.Logger
}

// NewGate creates a moderation gate.
func NewGate(moderator ai.Moderator) *Gate {
	return &Gate{
		moderator: moderator,
		logger:    slog.Default().With("component", "moderation_gate"),
	}
}

// Check reports whether the query is safe to process.
func (g *Gate) Check(ctx context.Context, query string) bool {
	flagged, err := g.moderator.Classify(ctx, query)
	if err != nil {
		g.logger.Error("moderation failed, allowing query", "error", err)
		return true
	}

	if flagged {
		g.logger.Info("moderation flagged query")
		return false
	}

	g.logger.Debug("moderation passed")
	return true
}
