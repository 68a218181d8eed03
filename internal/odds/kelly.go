package odds

import (
	"math"

	"github.com/shopspring/decimal"
)

// KellyFraction returns the share of bankroll to stake on an outcome with
// true probability p offered at decimal odds.
//
//	f = (b*p - q) / b, with b = odds - 1 and q = 1 - p
//
// The result is clamped at zero: a negative edge means no bet. Odds at or
// below 1 leave no net return and also give zero.
func KellyFraction(p, odds float64) float64 {
	if math.IsNaN(p) || math.IsNaN(odds) || p <= 0 {
		return 0
	}
	b := odds - 1
	if b <= 0 || math.IsInf(b, 1) {
		return 0
	}
	f := (b*p - (1 - p)) / b
	if f < 0 {
		return 0
	}
	return math.Min(f, 1)
}

// Edge returns the expected profit per unit staked, p*odds - 1
func Edge(p, odds float64) float64 {
	return p*odds - 1
}

// Stake returns the full-Kelly stake for bankroll, rounded to cents
func Stake(p, odds float64, bankroll decimal.Decimal) decimal.Decimal {
	return StakeWithMultiplier(p, odds, bankroll, 1)
}

// StakeWithMultiplier scales the Kelly stake by multiplier (fractional Kelly).
// Multipliers outside (0,1] are treated as 1.
func StakeWithMultiplier(p, odds float64, bankroll decimal.Decimal, multiplier float64) decimal.Decimal {
	if bankroll.Sign() <= 0 {
		return decimal.Zero
	}
	if multiplier <= 0 || multiplier > 1 {
		multiplier = 1
	}
	f := KellyFraction(p, odds) * multiplier
	if f == 0 {
		return decimal.Zero
	}
	return bankroll.Mul(decimal.NewFromFloat(f)).Round(2)
}
