package simulation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func TestPlayTerminates(t *testing.T) {
	tests := []struct {
		name   string
		params models.MatchParameters
	}{
		{"even servers", models.MatchParameters{ServeA: 0.6, ServeB: 0.6, BestOf: 3}},
		{"best of five", models.MatchParameters{ServeA: 0.7, ServeB: 0.55, BestOf: 5}},
		{"tiebreak decider", models.MatchParameters{ServeA: 0.8, ServeB: 0.8, BestOf: 3, Decider: models.DeciderTiebreak}},
		{"both always hold", models.MatchParameters{ServeA: 1, ServeB: 1, BestOf: 3}},
		{"both always broken", models.MatchParameters{ServeA: 0, ServeB: 0, BestOf: 3}},
		{"one certain server", models.MatchParameters{ServeA: 1, ServeB: 0.5, BestOf: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulator(tt.params)
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 200; i++ {
				out := sim.Play(models.NewScoreState(models.PlayerA), rng)
				assert.True(t, out.Winner.Valid())
				assert.Greater(t, out.Points, 0)
			}
		})
	}
}

func TestPlayAlwaysBrokenTakesFourPointsPerGame(t *testing.T) {
	sim := NewSimulator(models.MatchParameters{ServeA: 0, ServeB: 0, BestOf: 3})
	rng := rand.New(rand.NewSource(1))

	// Every set goes 6-6 on breaks of serve, 12 games of 4 points, then one
	// decider draw. Two or three sets are played.
	for i := 0; i < 50; i++ {
		out := sim.Play(models.NewScoreState(models.PlayerA), rng)
		assert.Contains(t, []int{2 * (12*4 + 1), 3 * (12*4 + 1)}, out.Points)
	}
}

func TestDeciderDrawIgnoresServer(t *testing.T) {
	const trials = 40000
	params := models.MatchParameters{ServeA: 0.7, ServeB: 0.6, BestOf: 3}
	sim := NewSimulator(params)
	want := params.DeciderShareA()
	tolerance := 4 * math.Sqrt(want*(1-want)/trials)

	for _, server := range []models.Player{models.PlayerA, models.PlayerB} {
		t.Run(server.String()+" serving", func(t *testing.T) {
			start := models.ScoreState{GamesA: 6, GamesB: 6, SetsA: 1, SetsB: 1, Serving: server}
			rng := rand.New(rand.NewSource(5))
			wins := 0
			for i := 0; i < trials; i++ {
				out := sim.Play(start, rng)
				assert.Equal(t, 1, out.Points)
				if out.Winner == models.PlayerA {
					wins++
				}
			}
			assert.InDelta(t, want, float64(wins)/trials, tolerance)
		})
	}
}

func TestPlayFinishesTiebreakInProgress(t *testing.T) {
	sim := NewSimulator(models.MatchParameters{ServeA: 0.6, ServeB: 0.6, BestOf: 3})
	start := models.ScoreState{GamesA: 6, GamesB: 6, SetsA: 1, SetsB: 1, PointsA: 6, PointsB: 0, Serving: models.PlayerA}

	out := sim.Play(start, rand.New(rand.NewSource(11)))
	assert.True(t, out.Winner.Valid())
	assert.Greater(t, out.Points, 0)

	certain := NewSimulator(models.MatchParameters{ServeA: 1, ServeB: 1, BestOf: 3})
	start.PointsA, start.PointsB = 5, 5
	out = certain.Play(start, rand.New(rand.NewSource(11)))
	assert.Equal(t, 1, out.Points, "an endless tie-break is settled by the draw")
}

func TestPlayDoesNotMutateStart(t *testing.T) {
	sim := NewSimulator(models.MatchParameters{ServeA: 0.6, ServeB: 0.6, BestOf: 3})
	start := models.ScoreState{PointsA: 3, PointsB: 3, GamesA: 4, GamesB: 4, SetsA: 1, Serving: models.PlayerB}
	snapshot := start

	sim.Play(start, rand.New(rand.NewSource(3)))
	assert.Equal(t, snapshot, start)
}

func TestPlayFromMatchPointWithCertainServer(t *testing.T) {
	sim := NewSimulator(models.MatchParameters{ServeA: 1, ServeB: 0.5, BestOf: 3})
	start := models.ScoreState{PointsA: 3, GamesA: 5, SetsA: 1, Serving: models.PlayerA}

	out := sim.Play(start, rand.New(rand.NewSource(9)))
	require.Equal(t, models.PlayerA, out.Winner)
	assert.Equal(t, 1, out.Points)
}
