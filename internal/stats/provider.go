package stats

import (
	"context"

	"github.com/yourusername/courtside/internal/models"
)

// Provider resolves serve-win probabilities for a pairing
type Provider interface {
	// ServeStats returns probabilities for playerA and playerB, or an error
	// matching models.ErrNoMatchupData when the pairing is unknown
	ServeStats(ctx context.Context, playerA, playerB string) (models.ServeStats, error)

	// Players lists every known player
	Players(ctx context.Context) ([]string, error)

	// Ping reports whether statistics can be served
	Ping(ctx context.Context) error
}
