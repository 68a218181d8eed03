// Package simulation runs the scoring state machine to completion and turns
// repeated runs into a win-probability estimate.
package simulation

import (
	"math/rand"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/scoring"
)

// Outcome is the result of one simulated match
type Outcome struct {
	Winner models.Player
	Points int
}

// Simulator plays single trials for a fixed set of match parameters
type Simulator struct {
	params       models.MatchParameters
	rules        scoring.Rules
	certainHolds bool // a tie-break between two certain servers never ends
}

// NewSimulator creates a simulator. Parameters are not validated here; the
// Estimator does that before any trial runs.
func NewSimulator(params models.MatchParameters) *Simulator {
	params = params.WithDefaults()
	return &Simulator{
		params:       params,
		rules:        scoring.NewRules(params),
		certainHolds: params.ServeA == 1 && params.ServeB == 1,
	}
}

// Rules returns the scoring rules the simulator drives
func (sim *Simulator) Rules() scoring.Rules {
	return sim.rules
}

// Play simulates the rest of the match from start. start is received by value
// so the caller's snapshot is never touched.
func (sim *Simulator) Play(start models.ScoreState, rng *rand.Rand) Outcome {
	state := start
	points := 0
	for {
		if winner, done := sim.rules.Winner(state); done {
			return Outcome{Winner: winner, Points: points}
		}
		if sim.rules.SettlesByDraw(state) || (sim.certainHolds && sim.rules.InDecider(state)) {
			winner := models.PlayerB
			if rng.Float64() < sim.params.DeciderShareA() {
				winner = models.PlayerA
			}
			state = sim.rules.ResolveDecider(state, winner)
			points++
			continue
		}
		server := sim.rules.Server(state)
		serverWon := rng.Float64() < sim.params.ServeProbability(server)
		state = sim.rules.ApplyPoint(state, serverWon)
		points++
	}
}
