// Package odds converts win probabilities into betting prices and sizes
// stakes with the Kelly criterion.
package odds

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/yourusername/courtside/internal/models"
)

// MinMarketOdds is the lowest decimal price accepted as a market override
const MinMarketOdds = 1.01

// infiniteLabel is how an unpriceable outcome is rendered
const infiniteLabel = "∞"

// Price is a decimal-odds price. The zero value is the "no finite price"
// sentinel used for zero-probability outcomes, so it can never be mixed into
// arithmetic by accident.
type Price struct {
	value float64
}

// NewPrice wraps a finite decimal price
func NewPrice(decimal float64) (Price, error) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal < 1 {
		return Price{}, models.Invalid("odds", "decimal odds must be finite and >= 1, got %v", decimal)
	}
	return Price{value: decimal}, nil
}

// MarketPrice validates a bookmaker price supplied as an override
func MarketPrice(decimal float64) (Price, error) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal <= MinMarketOdds {
		return Price{}, models.Invalid("market_odds", "must be greater than %.2f, got %v", MinMarketOdds, decimal)
	}
	return Price{value: decimal}, nil
}

// FairPrice returns 1/p, or the infinite sentinel when p is zero
func FairPrice(p float64) Price {
	if p <= 0 || math.IsNaN(p) {
		return Price{}
	}
	return Price{value: 1 / p}
}

// CheckEstimate returns an error matching models.ErrDegenerateOdds when p is
// a certainty either way. Such an estimate still has fair prices but offers
// no edge to stake on.
func CheckEstimate(p float64) error {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return fmt.Errorf("win probability %v: %w", p, models.ErrDegenerateOdds)
	}
	return nil
}

// Infinite reports whether the price is the no-finite-price sentinel
func (p Price) Infinite() bool {
	return p.value == 0
}

// Decimal returns the decimal odds and false for the sentinel
func (p Price) Decimal() (float64, bool) {
	if p.Infinite() {
		return 0, false
	}
	return p.value, true
}

// ImpliedProbability returns 1/odds, zero for the sentinel
func (p Price) ImpliedProbability() float64 {
	if p.Infinite() {
		return 0
	}
	return 1 / p.value
}

func (p Price) String() string {
	if p.Infinite() {
		return infiniteLabel
	}
	return strconv.FormatFloat(p.value, 'f', 2, 64)
}

// MarshalJSON renders finite prices as numbers and the sentinel as a string
func (p Price) MarshalJSON() ([]byte, error) {
	if p.Infinite() {
		return json.Marshal(infiniteLabel)
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON accepts either form written by MarshalJSON
func (p *Price) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != infiniteLabel {
			return fmt.Errorf("unknown price %q", label)
		}
		*p = Price{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewPrice(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
