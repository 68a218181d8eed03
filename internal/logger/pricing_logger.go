package logger

import (
	"github.com/sirupsen/logrus"
)

// PricingLogger provides dedicated logging for quotes and stats refreshes.
type PricingLogger struct {
	*logrus.Entry
}

// NewPricingLogger creates a new pricing logger.
func NewPricingLogger(baseLogger *logrus.Logger) *PricingLogger {
	return &PricingLogger{
		Entry: baseLogger.WithField("component", "pricing"),
	}
}

// LogQuote logs a completed quote.
func (pl *PricingLogger) LogQuote(playerA, playerB string, bestOf, trials int, winProbabilityA float64, statSource string, durationMs int64) {
	pl.WithFields(logrus.Fields{
		"player_a":          playerA,
		"player_b":          playerB,
		"best_of":           bestOf,
		"trials":            trials,
		"win_probability_a": winProbabilityA,
		"stat_source":       statSource,
		"quote_duration_ms": durationMs,
	}).Info("Quote completed")
}

// LogStakeDecision logs the staking outcome for one side of a quote.
func (pl *PricingLogger) LogStakeDecision(player string, probability, offeredOdds, kellyFraction float64, stake string, marketPrice bool) {
	pl.WithFields(logrus.Fields{
		"player":         player,
		"probability":    probability,
		"offered_odds":   offeredOdds,
		"kelly_fraction": kellyFraction,
		"stake":          stake,
		"market_price":   marketPrice,
	}).Debug("Stake calculated")
}

// LogDegenerate logs a quote whose estimate left no finite edge.
func (pl *PricingLogger) LogDegenerate(playerA, playerB string, winProbabilityA float64) {
	pl.WithFields(logrus.Fields{
		"player_a":          playerA,
		"player_b":          playerB,
		"win_probability_a": winProbabilityA,
	}).Warn("Degenerate estimate, stakes set to zero")
}

// LogStatsRefresh logs a serve statistics reload.
func (pl *PricingLogger) LogStatsRefresh(source string, records, players int, durationMs int64) {
	pl.WithFields(logrus.Fields{
		"source":      source,
		"records":     records,
		"players":     players,
		"duration_ms": durationMs,
	}).Info("Serve statistics refreshed")
}
