// Package service composes serve statistics, the Monte Carlo estimator and
// the odds calculator into priced quotes.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/odds"
	"github.com/yourusername/courtside/internal/stats"
	"github.com/yourusername/courtside/internal/tracing"
)

// Estimator produces a win probability from match parameters and a score
type Estimator interface {
	Estimate(ctx context.Context, params models.MatchParameters, start models.ScoreState, trials int) (models.SimulationResult, error)
}

// PricingConfig holds the defaults applied to requests that omit a field
type PricingConfig struct {
	BestOf          int
	Decider         models.Decider
	FirstServer     models.Player
	Trials          int
	Bankroll        decimal.Decimal
	KellyMultiplier float64
	MarketOddsA     float64
	MarketOddsB     float64
}

// PricingConfigFromConfig maps application configuration onto pricing defaults
func PricingConfigFromConfig(cfg *config.Config) PricingConfig {
	return PricingConfig{
		BestOf:          cfg.Simulation.BestOf,
		Decider:         cfg.Simulation.SetDecider(),
		FirstServer:     cfg.Simulation.FirstServerPlayer(),
		Trials:          cfg.Simulation.TrialCount,
		Bankroll:        cfg.Staking.BankrollAmount(),
		KellyMultiplier: cfg.Staking.KellyMultiplier,
		MarketOddsA:     cfg.Staking.MarketOddsA,
		MarketOddsB:     cfg.Staking.MarketOddsB,
	}
}

// QuoteRequest asks for a priced match. Either both player names or both
// serve probabilities must be given; explicit probabilities win.
type QuoteRequest struct {
	PlayerA     string             `json:"player_a,omitempty"`
	PlayerB     string             `json:"player_b,omitempty"`
	ServeA      *float64           `json:"serve_a,omitempty"`
	ServeB      *float64           `json:"serve_b,omitempty"`
	Start       *models.ScoreState `json:"start,omitempty"`
	BestOf      int                `json:"best_of,omitempty"`
	Decider     models.Decider     `json:"decider,omitempty"`
	Trials      int                `json:"trials,omitempty"`
	Bankroll    *decimal.Decimal   `json:"bankroll,omitempty"`
	MarketOddsA *float64           `json:"market_odds_a,omitempty"`
	MarketOddsB *float64           `json:"market_odds_b,omitempty"`
}

// PlayerQuote prices one side of the match
type PlayerQuote struct {
	Player         models.Player   `json:"player"`
	Name           string          `json:"name,omitempty"`
	WinProbability float64         `json:"win_probability"`
	FairOdds       odds.Price      `json:"fair_odds"`
	FractionalOdds *odds.Fraction  `json:"fractional_odds,omitempty"`
	OfferedOdds    odds.Price      `json:"offered_odds"`
	MarketPrice    bool            `json:"market_price"`
	KellyFraction  float64         `json:"kelly_fraction"`
	Edge           float64         `json:"edge"`
	Stake          decimal.Decimal `json:"stake"`
}

// Quote is the priced result of a QuoteRequest
type Quote struct {
	Parameters models.MatchParameters  `json:"parameters"`
	Start      models.ScoreState       `json:"start"`
	Stats      models.ServeStats       `json:"stats"`
	Result     models.SimulationResult `json:"result"`
	A          PlayerQuote             `json:"a"`
	B          PlayerQuote             `json:"b"`
	Bankroll   decimal.Decimal         `json:"bankroll"`
	Degenerate bool                    `json:"degenerate"`
	Warning    string                  `json:"warning,omitempty"`
}

// PricingService issues quotes
type PricingService struct {
	estimator Estimator
	provider  stats.Provider
	cfg       PricingConfig
	logger    *logger.PricingLogger
}

// NewPricingService creates a pricing service. provider may be nil when
// only explicit serve probabilities will be quoted.
func NewPricingService(estimator Estimator, provider stats.Provider, cfg PricingConfig, log *logrus.Logger) *PricingService {
	if log == nil {
		log = logrus.New()
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 100000
	}
	if cfg.KellyMultiplier <= 0 || cfg.KellyMultiplier > 1 {
		cfg.KellyMultiplier = 1
	}
	if !cfg.FirstServer.Valid() {
		cfg.FirstServer = models.PlayerA
	}
	return &PricingService{
		estimator: estimator,
		provider:  provider,
		cfg:       cfg,
		logger:    logger.NewPricingLogger(log),
	}
}

// Config returns the defaults the service applies
func (s *PricingService) Config() PricingConfig {
	return s.cfg
}

// Quote validates the request, resolves serve statistics, estimates the win
// probability and prices both players.
func (s *PricingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	began := time.Now()

	q, err := s.quote(ctx, req)
	if err != nil {
		metrics.RecordQuote(quoteOutcome(err), 0)
		return nil, err
	}

	outcome := "success"
	if q.Degenerate {
		outcome = "degenerate"
		s.logger.LogDegenerate(q.Stats.PlayerA, q.Stats.PlayerB, q.Result.WinProbabilityA)
	}
	metrics.RecordQuote(outcome, q.Result.WinProbabilityA)
	s.logger.LogQuote(q.Stats.PlayerA, q.Stats.PlayerB, q.Parameters.BestOf, q.Result.Trials,
		q.Result.WinProbabilityA, string(q.Stats.Source), time.Since(began).Milliseconds())

	return q, nil
}

func (s *PricingService) quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	bankroll := s.cfg.Bankroll
	if req.Bankroll != nil {
		bankroll = *req.Bankroll
	}
	if bankroll.IsNegative() {
		return nil, models.Invalid("bankroll", "must not be negative, got %s", bankroll)
	}

	marketA, err := s.marketPrice("market_odds_a", req.MarketOddsA, s.cfg.MarketOddsA)
	if err != nil {
		return nil, err
	}
	marketB, err := s.marketPrice("market_odds_b", req.MarketOddsB, s.cfg.MarketOddsB)
	if err != nil {
		return nil, err
	}

	params := models.MatchParameters{BestOf: req.BestOf, Decider: req.Decider}
	if params.BestOf == 0 {
		params.BestOf = s.cfg.BestOf
	}
	if params.Decider == "" {
		params.Decider = s.cfg.Decider
	}

	start := models.NewScoreState(s.cfg.FirstServer)
	if req.Start != nil {
		start = *req.Start
	}

	trials := req.Trials
	if trials == 0 {
		trials = s.cfg.Trials
	}

	st, err := s.serveStats(ctx, req)
	if err != nil {
		return nil, err
	}
	params.ServeA, params.ServeB = st.ServeA, st.ServeB

	tracing.AddAnnotation(ctx, "stat_source", string(st.Source))
	var result models.SimulationResult
	err = tracing.Capture(ctx, "estimate", func(ctx context.Context) error {
		var err error
		result, err = s.estimator.Estimate(ctx, params, start, trials)
		return err
	})
	if err != nil {
		tracing.AddError(ctx, err)
		return nil, err
	}

	q := &Quote{
		Parameters: params.WithDefaults(),
		Start:      start,
		Stats:      st,
		Result:     result,
		Bankroll:   bankroll,
	}
	if err := odds.CheckEstimate(result.WinProbabilityA); err != nil {
		q.Degenerate = errors.Is(err, models.ErrDegenerateOdds)
		q.Warning = err.Error()
	}
	q.A = s.price(models.PlayerA, st.PlayerA, result.WinProbabilityA, marketA, bankroll, q.Degenerate)
	q.B = s.price(models.PlayerB, st.PlayerB, result.WinProbabilityB, marketB, bankroll, q.Degenerate)

	return q, nil
}

func (s *PricingService) serveStats(ctx context.Context, req QuoteRequest) (models.ServeStats, error) {
	nameA, nameB := strings.TrimSpace(req.PlayerA), strings.TrimSpace(req.PlayerB)

	switch {
	case req.ServeA != nil && req.ServeB != nil:
		return models.ServeStats{
			PlayerA: nameA,
			PlayerB: nameB,
			ServeA:  *req.ServeA,
			ServeB:  *req.ServeB,
			Source:  models.StatSourceExplicit,
		}, nil
	case req.ServeA != nil:
		return models.ServeStats{}, models.Invalid("serve_b", "required when serve_a is given")
	case req.ServeB != nil:
		return models.ServeStats{}, models.Invalid("serve_a", "required when serve_b is given")
	case nameA == "" && nameB == "":
		return models.ServeStats{}, models.Invalid("player_a", "player names or serve probabilities are required")
	case s.provider == nil:
		return models.ServeStats{}, models.Invalid("player_a", "no serve statistics provider is configured")
	}

	return s.provider.ServeStats(ctx, nameA, nameB)
}

func (s *PricingService) marketPrice(field string, requested *float64, configured float64) (*odds.Price, error) {
	v := configured
	if requested != nil {
		v = *requested
	}
	if v == 0 {
		return nil, nil
	}
	p, err := odds.MarketPrice(v)
	if err != nil {
		return nil, models.Invalid(field, "must be greater than %.2f, got %v", odds.MinMarketOdds, v)
	}
	return &p, nil
}

func (s *PricingService) price(player models.Player, name string, p float64, market *odds.Price, bankroll decimal.Decimal, degenerate bool) PlayerQuote {
	pq := PlayerQuote{
		Player:         player,
		Name:           name,
		WinProbability: p,
		FairOdds:       odds.FairPrice(p),
		OfferedOdds:    odds.FairPrice(p),
		Stake:          decimal.Zero,
	}
	if f, ok := odds.Fractional(pq.FairOdds); ok {
		pq.FractionalOdds = &f
	}
	if market != nil {
		pq.OfferedOdds = *market
		pq.MarketPrice = true
	}

	offered, ok := pq.OfferedOdds.Decimal()
	if !ok || degenerate {
		return pq
	}

	pq.Edge = odds.Edge(p, offered)
	pq.KellyFraction = odds.KellyFraction(p, offered) * s.cfg.KellyMultiplier
	pq.Stake = odds.StakeWithMultiplier(p, offered, bankroll, s.cfg.KellyMultiplier)
	s.logger.LogStakeDecision(player.String(), p, offered, pq.KellyFraction, pq.Stake.StringFixed(2), pq.MarketPrice)

	return pq
}

func quoteOutcome(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidConfiguration):
		return "invalid"
	case errors.Is(err, models.ErrNoMatchupData):
		return "no_matchup"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
