// Package live tracks in-progress matches point by point and republishes a
// fresh win probability after every point.
package live

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/courtside/internal/models"
)

// Options configures a new session. Zero values take the manager defaults.
type Options struct {
	BestOf      int                `json:"best_of,omitempty"`
	Decider     models.Decider     `json:"decider,omitempty"`
	FirstServer *models.Player     `json:"first_server,omitempty"`
	ServeA      *float64           `json:"serve_a,omitempty"`
	ServeB      *float64           `json:"serve_b,omitempty"`
	Resume      *models.ScoreState `json:"resume,omitempty"`
	Trials      int                `json:"trials,omitempty"`
}

// Session is the score snapshot of one match
type Session struct {
	ID         uuid.UUID               `json:"id"`
	PlayerA    string                  `json:"player_a"`
	PlayerB    string                  `json:"player_b"`
	Parameters models.MatchParameters  `json:"parameters"`
	Stats      models.ServeStats       `json:"stats"`
	State      models.ScoreState       `json:"state"`
	Result     models.SimulationResult `json:"result"`
	Trials     int                     `json:"trials"`
	Points     int                     `json:"points"`
	Winner     *models.Player          `json:"winner,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// Finished reports whether the match has been decided
func (s *Session) Finished() bool {
	return s.Winner != nil
}

// Update is published to subscribers after every scored point
type Update struct {
	SessionID   uuid.UUID               `json:"session_id"`
	Point       int                     `json:"point"`
	PointWinner models.Player           `json:"point_winner"`
	State       models.ScoreState       `json:"state"`
	Score       string                  `json:"score"`
	Result      models.SimulationResult `json:"result"`
	Winner      *models.Player          `json:"winner,omitempty"`
	At          time.Time               `json:"at"`
}

// Publisher delivers updates to whoever is watching a session
type Publisher interface {
	Publish(id uuid.UUID, update Update)
	CloseSession(id uuid.UUID)
}

// decidedResult is the certain outcome once the match is over
func decidedResult(winner models.Player) models.SimulationResult {
	if winner == models.PlayerA {
		return models.SimulationResult{WinProbabilityA: 1, WinProbabilityB: 0}
	}
	return models.SimulationResult{WinProbabilityA: 0, WinProbabilityB: 1}
}

var errSlowSubscriber = errors.New("subscriber queue full")
