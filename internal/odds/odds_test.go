package odds

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func TestFairPrice(t *testing.T) {
	certain := FairPrice(1.0)
	value, ok := certain.Decimal()
	require.True(t, ok)
	assert.Equal(t, 1.0, value)

	evens := FairPrice(0.5)
	value, ok = evens.Decimal()
	require.True(t, ok)
	assert.Equal(t, 2.0, value)
	assert.Equal(t, "2.00", evens.String())

	impossible := FairPrice(0)
	assert.True(t, impossible.Infinite())
	_, ok = impossible.Decimal()
	assert.False(t, ok)
	assert.Equal(t, 0.0, impossible.ImpliedProbability())
	assert.Equal(t, "∞", impossible.String())
}

func TestCheckEstimate(t *testing.T) {
	for _, p := range []float64{0.0001, 0.5, 0.9999} {
		assert.NoError(t, CheckEstimate(p), "p=%v", p)
	}
	for _, p := range []float64{0, 1} {
		err := CheckEstimate(p)
		require.Error(t, err, "p=%v", p)
		assert.True(t, errors.Is(err, models.ErrDegenerateOdds))
	}
}

func TestMarketPrice(t *testing.T) {
	_, err := MarketPrice(1.01)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidConfiguration))

	p, err := MarketPrice(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1/1.5, p.ImpliedProbability(), 1e-12)
}

func TestPriceJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Price{"a": FairPrice(0.25), "b": FairPrice(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":4,"b":"∞"}`, string(data))

	var decoded map[string]Price
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FairPrice(0.25), decoded["a"])
	assert.True(t, decoded["b"].Infinite())
}

func TestFractional(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want string
	}{
		{"evens", 0.5, "1/1"},
		{"odds on", 0.8, "1/4"},
		{"long shot", 0.2, "4/1"},
		{"certain", 1.0, "0/1"},
		{"approximated", 0.7319, "26/71"},
		{"one third", 1.0 / 3.0, "2/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Fractional(FairPrice(tt.p))
			require.True(t, ok)
			assert.Equal(t, tt.want, f.String())
			assert.LessOrEqual(t, f.Den, int64(MaxDenominator))
		})
	}

	_, ok := Fractional(FairPrice(0))
	assert.False(t, ok)
}

func TestKellyFraction(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		odds float64
		want float64
	}{
		{"positive edge", 0.6, 2.0, 0.2},
		{"no edge", 0.5, 2.0, 0},
		{"negative edge clamps", 0.3, 2.0, 0},
		{"odds of one", 0.9, 1.0, 0},
		{"odds below one", 0.9, 0.8, 0},
		{"zero probability", 0, 5.0, 0},
		{"long shot value", 0.3, 4.0, (3*0.3 - 0.7) / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KellyFraction(tt.p, tt.odds), 1e-12)
		})
	}
}

func TestKellyFractionNeverNegative(t *testing.T) {
	for p := 0.0; p <= 1.0; p += 0.05 {
		for o := 1.01; o < 20; o += 0.37 {
			f := KellyFraction(p, o)
			assert.GreaterOrEqual(t, f, 0.0, "p=%v o=%v", p, o)
			if (o-1)*p <= 1-p {
				assert.Equal(t, 0.0, f, "p=%v o=%v", p, o)
			}
		}
	}
}

func TestStake(t *testing.T) {
	bankroll := decimal.NewFromInt(1000)

	assert.True(t, Stake(0.6, 2.0, bankroll).Equal(decimal.NewFromInt(200)))
	assert.True(t, Stake(0.4, 2.0, bankroll).IsZero())
	assert.True(t, Stake(0.6, 2.0, decimal.Zero).IsZero())
	assert.True(t, StakeWithMultiplier(0.6, 2.0, bankroll, 0.25).Equal(decimal.NewFromInt(50)))
	assert.True(t, StakeWithMultiplier(0.6, 2.0, bankroll, 0).Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "66.50", Stake(0.5, 3.0, decimal.NewFromInt(266)).StringFixed(2))
}

func TestEdge(t *testing.T) {
	assert.InDelta(t, 0.2, Edge(0.6, 2.0), 1e-12)
	assert.InDelta(t, -0.1, Edge(0.45, 2.0), 1e-12)
}
