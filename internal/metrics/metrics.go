// Package metrics provides the centralized Prometheus registry for courtside.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "courtside"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EstimatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimates_total",
		Help:      "Total number of Monte Carlo estimates by status",
	}, []string{"status"})
	TrialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trials_total",
		Help:      "Total number of simulated matches",
	})
	QuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Total number of quotes by outcome",
	}, []string{"outcome"})
	LivePointsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_points_total",
		Help:      "Total number of points scored in live sessions",
	})
	StatsRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_refresh_total",
		Help:      "Total number of serve statistics reloads by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	StatsCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_cache_hit_ratio",
		Help:      "Hit ratio of the serve statistics cache",
	})
	LiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions",
		Help:      "Number of open live match sessions",
	})
	StatsPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_players",
		Help:      "Number of players with serve statistics",
	})
)

// Histogram metrics
var (
	EstimateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimate_duration_seconds",
		Help:      "Duration of Monte Carlo estimates in seconds",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
	WinProbability = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_win_probability",
		Help:      "Player A win probability of issued quotes",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EstimatesTotal)
		registry.MustRegister(TrialsTotal)
		registry.MustRegister(QuotesTotal)
		registry.MustRegister(LivePointsTotal)
		registry.MustRegister(StatsRefreshTotal)

		registry.MustRegister(StatsCacheHitRatio)
		registry.MustRegister(LiveSessions)
		registry.MustRegister(StatsPlayers)

		registry.MustRegister(EstimateDuration)
		registry.MustRegister(WinProbability)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEstimate records one estimate. status is one of "success",
// "invalid", "cancelled" or "error".
func RecordEstimate(status string, trials int, durationSeconds float64) {
	EstimatesTotal.WithLabelValues(status).Inc()
	if trials > 0 {
		TrialsTotal.Add(float64(trials))
		EstimateDuration.Observe(durationSeconds)
	}
}

// RecordQuote records an issued or rejected quote.
func RecordQuote(outcome string, winProbabilityA float64) {
	QuotesTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" || outcome == "degenerate" {
		WinProbability.Observe(winProbabilityA)
	}
}

// RecordLivePoint records a point scored in a live session.
func RecordLivePoint() {
	LivePointsTotal.Inc()
}

// RecordStatsRefresh records a serve statistics reload.
func RecordStatsRefresh(status string, players int) {
	StatsRefreshTotal.WithLabelValues(status).Inc()
	if status == "success" {
		StatsPlayers.Set(float64(players))
	}
}

// UpdateCacheHitRatio updates the stats cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	StatsCacheHitRatio.Set(ratio)
}

// UpdateLiveSessions updates the open live sessions gauge.
func UpdateLiveSessions(count int) {
	LiveSessions.Set(float64(count))
}
