package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/simulation"
	"github.com/yourusername/courtside/internal/stats"
)

var quoteFlags struct {
	playerA  string
	playerB  string
	serveA   float64
	serveB   float64
	bestOf   int
	decider  string
	trials   int
	bankroll string
	marketA  float64
	marketB  float64
	jsonOut  bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a match",
	Long: `Estimates the match-win probability for two players and prints fair odds,
Kelly fractions and stakes. Serve probabilities come from --serve-a/--serve-b
or, when omitted, from the configured statistics source by player name.`,
	Example: `  courtside quote --serve-a 0.66 --serve-b 0.62
  courtside quote --player-a "Roger Federer" --player-b "Rafael Nadal" --market-a 1.9`,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteFlags.playerA, "player-a", "", "Name of player A")
	f.StringVar(&quoteFlags.playerB, "player-b", "", "Name of player B")
	f.Float64Var(&quoteFlags.serveA, "serve-a", 0, "Probability player A wins a point on serve")
	f.Float64Var(&quoteFlags.serveB, "serve-b", 0, "Probability player B wins a point on serve")
	f.IntVar(&quoteFlags.bestOf, "best-of", 0, "Sets in the match (3 or 5)")
	f.StringVar(&quoteFlags.decider, "decider", "", "6-6 policy: weighted_trial or tiebreak")
	f.IntVarP(&quoteFlags.trials, "trials", "n", 0, "Number of simulated matches")
	f.StringVar(&quoteFlags.bankroll, "bankroll", "", "Bankroll to size stakes against")
	f.Float64Var(&quoteFlags.marketA, "market-a", 0, "Decimal market odds offered on player A")
	f.Float64Var(&quoteFlags.marketB, "market-b", 0, "Decimal market odds offered on player B")
	f.BoolVar(&quoteFlags.jsonOut, "json", false, "Print the quote as JSON")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	req, err := quoteRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	est := simulation.NewEstimator(simulation.EstimatorConfig{
		Workers: cfg.Simulation.Workers,
		Seed:    cfg.Simulation.Seed,
	}, appLog)

	var provider stats.Provider
	if req.ServeA == nil || req.ServeB == nil {
		deps, err := setupDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()
		provider = deps.stats
		est = deps.estimator
	}

	pricing := service.NewPricingService(est, provider, service.PricingConfigFromConfig(cfg), appLog)
	q, err := pricing.Quote(ctx, req)
	if err != nil {
		return err
	}

	if quoteFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	}
	printQuote(q)
	return nil
}

func quoteRequestFromFlags(cmd *cobra.Command) (service.QuoteRequest, error) {
	f := cmd.Flags()
	req := service.QuoteRequest{
		PlayerA: quoteFlags.playerA,
		PlayerB: quoteFlags.playerB,
		BestOf:  quoteFlags.bestOf,
		Decider: models.Decider(quoteFlags.decider),
		Trials:  quoteFlags.trials,
	}

	if f.Changed("serve-a") {
		req.ServeA = &quoteFlags.serveA
	}
	if f.Changed("serve-b") {
		req.ServeB = &quoteFlags.serveB
	}
	if f.Changed("market-a") {
		req.MarketOddsA = &quoteFlags.marketA
	}
	if f.Changed("market-b") {
		req.MarketOddsB = &quoteFlags.marketB
	}
	if quoteFlags.bankroll != "" {
		b, err := decimal.NewFromString(quoteFlags.bankroll)
		if err != nil {
			return req, models.Invalid("bankroll", "not a number: %q", quoteFlags.bankroll)
		}
		req.Bankroll = &b
	}

	return req, nil
}

func printQuote(q *service.Quote) {
	fmt.Printf("\n%s vs %s (best of %d, %s at 6-6)\n",
		labelOr(q.Stats.PlayerA, "A"), labelOr(q.Stats.PlayerB, "B"), q.Parameters.BestOf, q.Parameters.Decider)
	fmt.Printf("Serve: %.4f / %.4f (%s)\n", q.Stats.ServeA, q.Stats.ServeB, q.Stats.Source)
	fmt.Printf("Trials: %d\n\n", q.Result.Trials)

	fmt.Printf("%-24s %8s %10s %8s %10s %8s %10s\n", "Player", "Win %", "Fair", "Frac", "Offered", "Kelly", "Stake")
	for _, pq := range []service.PlayerQuote{q.A, q.B} {
		frac := "-"
		if pq.FractionalOdds != nil {
			frac = pq.FractionalOdds.String()
		}
		offered := pq.OfferedOdds.String()
		if pq.MarketPrice {
			offered += "*"
		}
		fmt.Printf("%-24s %7.2f%% %10s %8s %10s %8.4f %10s\n",
			labelOr(pq.Name, pq.Player.String()),
			pq.WinProbability*100,
			pq.FairOdds.String(),
			frac,
			offered,
			pq.KellyFraction,
			pq.Stake.StringFixed(2),
		)
	}

	fmt.Printf("\nBankroll: %s", q.Bankroll.StringFixed(2))
	if q.Degenerate {
		fmt.Print("  (degenerate estimate, no stake)")
	}
	fmt.Println()
}

func labelOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
