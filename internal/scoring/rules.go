// Package scoring implements the tennis scoring state machine: points roll up
// into games, games into sets and sets into a match.
package scoring

import (
	"github.com/yourusername/courtside/internal/models"
)

const (
	pointsToWinGame     = 4
	gamesToWinSet       = 6
	pointsToWinTiebreak = 7
	winningMargin       = 2
)

// Rules holds the per-match constants the transitions depend on. All methods
// are pure: they take a ScoreState by value and return the next one.
type Rules struct {
	SetsToWin int
	Decider   models.Decider
}

// NewRules builds the rules for a match format
func NewRules(params models.MatchParameters) Rules {
	params = params.WithDefaults()
	return Rules{
		SetsToWin: params.SetsToWin(),
		Decider:   params.Decider,
	}
}

// InDecider reports whether the current set stands at 6-6
func (r Rules) InDecider(s models.ScoreState) bool {
	return s.GamesA == gamesToWinSet && s.GamesB == gamesToWinSet
}

// SettlesByDraw reports whether the set at s is settled by a single weighted
// draw rather than played out point by point. A tie-break already under way
// is played out.
func (r Rules) SettlesByDraw(s models.ScoreState) bool {
	return r.Decider == models.DeciderWeightedTrial && r.InDecider(s) && s.PointsA+s.PointsB == 0
}

// Server returns the player serving the next point. Inside a tie-break the
// serve rotates every two points starting with s.Serving.
func (r Rules) Server(s models.ScoreState) models.Player {
	if r.InDecider(s) {
		n := s.PointsA + s.PointsB
		if ((n+1)/2)%2 == 0 {
			return s.Serving
		}
		return s.Serving.Other()
	}
	return s.Serving
}

// Winner returns the match winner once one player holds the majority of sets
func (r Rules) Winner(s models.ScoreState) (models.Player, bool) {
	switch {
	case s.SetsA >= r.SetsToWin:
		return models.PlayerA, true
	case s.SetsB >= r.SetsToWin:
		return models.PlayerB, true
	}
	return 0, false
}

// ApplyPoint advances s by one point won by the server (serverWon) or by the
// returner. Points played at 6-6 are tie-break points whatever the decider;
// the weighted-trial shortcut is taken through ResolveDecider. A decided
// match is returned unchanged.
func (r Rules) ApplyPoint(s models.ScoreState, serverWon bool) models.ScoreState {
	if _, done := r.Winner(s); done {
		return s
	}
	if r.InDecider(s) {
		return r.applyTiebreakPoint(s, serverWon)
	}

	winner := r.Server(s)
	if !serverWon {
		winner = winner.Other()
	}
	s = addPoint(s, winner)
	if !won(s.Points(winner), s.Points(winner.Other()), pointsToWinGame) {
		return s
	}

	s.PointsA, s.PointsB = 0, 0
	s = addGame(s, winner)
	s.Serving = s.Serving.Other()

	if won(s.Games(winner), s.Games(winner.Other()), gamesToWinSet) {
		s = addSet(s, winner)
	}
	return s
}

// AwardPoint applies a point whose winner is known by identity rather than
// by serve outcome.
func (r Rules) AwardPoint(s models.ScoreState, winner models.Player) models.ScoreState {
	return r.ApplyPoint(s, winner == r.Server(s))
}

// ResolveDecider awards the 6-6 set to winner, discarding any tie-break
// points in progress. The player who would have received first in the
// tie-break opens the next set. Outside a decider s is returned unchanged.
func (r Rules) ResolveDecider(s models.ScoreState, winner models.Player) models.ScoreState {
	if _, done := r.Winner(s); done || !r.InDecider(s) {
		return s
	}
	s.PointsA, s.PointsB = 0, 0
	s.Serving = s.Serving.Other()
	return addSet(s, winner)
}

func (r Rules) applyTiebreakPoint(s models.ScoreState, serverWon bool) models.ScoreState {
	winner := r.Server(s)
	if !serverWon {
		winner = winner.Other()
	}
	s = addPoint(s, winner)
	if !won(s.Points(winner), s.Points(winner.Other()), pointsToWinTiebreak) {
		return s
	}
	// The player who received first in the tie-break opens the next set.
	s.PointsA, s.PointsB = 0, 0
	s.Serving = s.Serving.Other()
	return addSet(s, winner)
}

func won(own, other, target int) bool {
	return own >= target && own-other >= winningMargin
}

func addPoint(s models.ScoreState, p models.Player) models.ScoreState {
	if p == models.PlayerA {
		s.PointsA++
	} else {
		s.PointsB++
	}
	return s
}

func addGame(s models.ScoreState, p models.Player) models.ScoreState {
	if p == models.PlayerA {
		s.GamesA++
	} else {
		s.GamesB++
	}
	return s
}

func addSet(s models.ScoreState, p models.Player) models.ScoreState {
	s.GamesA, s.GamesB = 0, 0
	if p == models.PlayerA {
		s.SetsA++
	} else {
		s.SetsB++
	}
	return s
}
