package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func bestOf3(decider models.Decider) Rules {
	return NewRules(models.MatchParameters{ServeA: 0.6, ServeB: 0.6, BestOf: 3, Decider: decider})
}

func TestNewRulesThresholds(t *testing.T) {
	assert.Equal(t, 2, NewRules(models.MatchParameters{BestOf: 3}).SetsToWin)
	assert.Equal(t, 3, NewRules(models.MatchParameters{BestOf: 5}).SetsToWin)
	assert.Equal(t, models.DeciderWeightedTrial, NewRules(models.MatchParameters{BestOf: 3}).Decider)
}

func TestApplyPointLoveGame(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.NewScoreState(models.PlayerA)

	for i := 0; i < 3; i++ {
		s = r.ApplyPoint(s, true)
	}
	assert.Equal(t, 3, s.PointsA)
	assert.Equal(t, models.PlayerA, s.Serving)

	s = r.ApplyPoint(s, true)
	assert.Equal(t, 0, s.PointsA)
	assert.Equal(t, 0, s.PointsB)
	assert.Equal(t, 1, s.GamesA)
	assert.Equal(t, models.PlayerB, s.Serving, "serve alternates after a game")
}

func TestApplyPointReturnerWins(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.NewScoreState(models.PlayerA)

	s = r.ApplyPoint(s, false)
	assert.Equal(t, 0, s.PointsA)
	assert.Equal(t, 1, s.PointsB)
}

func TestDeuceResolvesGameBeforeSetChecks(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.ScoreState{PointsA: 3, PointsB: 3, GamesA: 5, GamesB: 4, Serving: models.PlayerA}

	s = r.ApplyPoint(s, true)
	assert.Equal(t, 4, s.PointsA, "advantage, game not yet won")
	assert.Equal(t, 5, s.GamesA)

	s = r.ApplyPoint(s, false)
	assert.Equal(t, 4, s.PointsA)
	assert.Equal(t, 4, s.PointsB, "back to deuce")

	s = r.ApplyPoint(s, true)
	s = r.ApplyPoint(s, true)
	assert.Equal(t, 0, s.GamesA, "game then set won in the same step")
	assert.Equal(t, 0, s.GamesB)
	assert.Equal(t, 1, s.SetsA)
	assert.Equal(t, models.PlayerB, s.Serving)
}

func TestSetNeedsTwoGameLead(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.ScoreState{PointsA: 3, GamesA: 5, GamesB: 5, Serving: models.PlayerA}

	s = r.ApplyPoint(s, true)
	assert.Equal(t, 6, s.GamesA)
	assert.Equal(t, 5, s.GamesB)
	assert.Equal(t, 0, s.SetsA)
}

func TestWeightedTrialDecider(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.ScoreState{GamesA: 6, GamesB: 6, Serving: models.PlayerB}
	require.True(t, r.InDecider(s))
	assert.True(t, r.SettlesByDraw(s))
	assert.False(t, bestOf3(models.DeciderTiebreak).SettlesByDraw(s))
	assert.False(t, r.SettlesByDraw(models.ScoreState{GamesA: 6, GamesB: 5}))
	assert.False(t, r.SettlesByDraw(models.ScoreState{GamesA: 6, GamesB: 6, PointsA: 1}), "tie-break under way")

	// The set goes to the drawn player whoever is serving.
	for _, winner := range []models.Player{models.PlayerA, models.PlayerB} {
		got := r.ResolveDecider(s, winner)
		assert.Equal(t, 1, got.Sets(winner))
		assert.Equal(t, 0, got.Sets(winner.Other()))
		assert.Equal(t, 0, got.GamesA)
		assert.Equal(t, 0, got.GamesB)
		assert.Equal(t, models.PlayerA, got.Serving)
	}

	inProgress := models.ScoreState{GamesA: 6, GamesB: 6, PointsA: 4, PointsB: 2, Serving: models.PlayerA}
	got := r.ResolveDecider(inProgress, models.PlayerB)
	assert.Equal(t, 1, got.SetsB)
	assert.Zero(t, got.PointsA)

	notDecider := models.ScoreState{GamesA: 5, GamesB: 6}
	assert.Equal(t, notDecider, r.ResolveDecider(notDecider, models.PlayerA))
}

func TestPointsAtSixAllPlayTiebreakUnderEitherDecider(t *testing.T) {
	for _, decider := range []models.Decider{models.DeciderWeightedTrial, models.DeciderTiebreak} {
		t.Run(string(decider), func(t *testing.T) {
			r := bestOf3(decider)
			s := models.ScoreState{GamesA: 6, GamesB: 6, Serving: models.PlayerB}

			s = r.AwardPoint(s, models.PlayerB)
			assert.Equal(t, 1, s.PointsB)
			assert.Equal(t, 0, s.SetsB, "one point does not settle the set")
			assert.Equal(t, models.PlayerA, r.Server(s))

			for i := 0; i < 6; i++ {
				s = r.AwardPoint(s, models.PlayerB)
			}
			assert.Equal(t, 1, s.SetsB)
			assert.Equal(t, models.PlayerA, s.Serving)
		})
	}
}

func TestTiebreakServeRotation(t *testing.T) {
	r := bestOf3(models.DeciderTiebreak)
	s := models.ScoreState{GamesA: 6, GamesB: 6, Serving: models.PlayerA}

	want := []models.Player{
		models.PlayerA, models.PlayerB, models.PlayerB,
		models.PlayerA, models.PlayerA, models.PlayerB,
	}
	for i, server := range want {
		assert.Equal(t, server, r.Server(s), "point %d", i)
		s = r.ApplyPoint(s, i%2 == 0)
	}
}

func TestTiebreakFirstToSevenByTwo(t *testing.T) {
	r := bestOf3(models.DeciderTiebreak)
	s := models.ScoreState{PointsA: 6, PointsB: 6, GamesA: 6, GamesB: 6, Serving: models.PlayerA}

	s = r.AwardPoint(s, models.PlayerA)
	assert.Equal(t, 7, s.PointsA)
	assert.Equal(t, 0, s.SetsA)

	s = r.AwardPoint(s, models.PlayerA)
	assert.Equal(t, 1, s.SetsA)
	assert.Equal(t, 0, s.PointsA)
	assert.Equal(t, 0, s.GamesA)
	assert.Equal(t, models.PlayerB, s.Serving, "first receiver opens the next set")
}

func TestWinnerAndMatchTermination(t *testing.T) {
	tests := []struct {
		name   string
		bestOf int
		state  models.ScoreState
		winner models.Player
		done   bool
	}{
		{"ongoing", 3, models.ScoreState{SetsA: 1, SetsB: 1}, 0, false},
		{"A wins best of 3", 3, models.ScoreState{SetsA: 2, SetsB: 1}, models.PlayerA, true},
		{"B wins best of 5", 5, models.ScoreState{SetsA: 2, SetsB: 3}, models.PlayerB, true},
		{"two sets not enough in best of 5", 5, models.ScoreState{SetsA: 2}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRules(models.MatchParameters{BestOf: tt.bestOf})
			winner, done := r.Winner(tt.state)
			assert.Equal(t, tt.done, done)
			if tt.done {
				assert.Equal(t, tt.winner, winner)
			}
		})
	}
}

func TestApplyPointOnDecidedMatchIsNoop(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.ScoreState{SetsA: 2}
	assert.Equal(t, s, r.ApplyPoint(s, true))
}

func TestMatchPointWinsMatch(t *testing.T) {
	r := bestOf3(models.DeciderWeightedTrial)
	s := models.ScoreState{PointsA: 3, GamesA: 5, GamesB: 3, SetsA: 1, Serving: models.PlayerA}

	s = r.AwardPoint(s, models.PlayerA)
	winner, done := r.Winner(s)
	require.True(t, done)
	assert.Equal(t, models.PlayerA, winner)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		decider models.Decider
		state   models.ScoreState
		wantErr bool
	}{
		{"zero state", models.DeciderWeightedTrial, models.ScoreState{}, false},
		{"long deuce", models.DeciderWeightedTrial, models.ScoreState{PointsA: 11, PointsB: 10}, false},
		{"match decided", models.DeciderWeightedTrial, models.ScoreState{SetsA: 2}, true},
		{"negative points", models.DeciderWeightedTrial, models.ScoreState{PointsA: -1}, true},
		{"game already won", models.DeciderWeightedTrial, models.ScoreState{PointsA: 4, PointsB: 1}, true},
		{"set already won", models.DeciderWeightedTrial, models.ScoreState{GamesA: 6, GamesB: 3}, true},
		{"games overflow", models.DeciderWeightedTrial, models.ScoreState{GamesA: 7, GamesB: 6}, true},
		{"six all", models.DeciderWeightedTrial, models.ScoreState{GamesA: 6, GamesB: 6}, false},
		{"points at six all weighted", models.DeciderWeightedTrial, models.ScoreState{GamesA: 6, GamesB: 6, PointsA: 2}, false},
		{"tiebreak won under weighted", models.DeciderWeightedTrial, models.ScoreState{GamesA: 6, GamesB: 6, PointsB: 7}, true},
		{"points at six all tiebreak", models.DeciderTiebreak, models.ScoreState{GamesA: 6, GamesB: 6, PointsA: 6, PointsB: 5}, false},
		{"tiebreak already won", models.DeciderTiebreak, models.ScoreState{GamesA: 6, GamesB: 6, PointsA: 7, PointsB: 5}, true},
		{"unknown server", models.DeciderWeightedTrial, models.ScoreState{Serving: models.Player(7)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bestOf3(tt.decider).Validate(tt.state)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidConfiguration))
		})
	}
}
