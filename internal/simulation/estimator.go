package simulation

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
)

const (
	// DefaultTrials is the trial count for a full estimate
	DefaultTrials = 100000
	// LiveTrials is the smaller count used when recomputing between points
	LiveTrials = 5000

	// trials run between context checks
	chunkSize = 1024
)

// EstimatorConfig configures the Monte Carlo estimator
type EstimatorConfig struct {
	// Workers is the number of goroutines sharing the trials. Zero means
	// GOMAXPROCS.
	Workers int
	// Seed makes estimates reproducible for a fixed worker count. Zero draws
	// a fresh seed per estimate.
	Seed int64
}

// Estimator runs independent trials and aggregates the wins
type Estimator struct {
	cfg    EstimatorConfig
	logger *logrus.Logger
}

// NewEstimator creates an estimator
func NewEstimator(cfg EstimatorConfig, logger *logrus.Logger) *Estimator {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Estimator{cfg: cfg, logger: logger}
}

// Estimate runs trials matches from start and returns player A's share of
// wins. Every input is validated before the first trial.
func (e *Estimator) Estimate(ctx context.Context, params models.MatchParameters, start models.ScoreState, trials int) (models.SimulationResult, error) {
	sim, err := e.prepare(params, start, trials)
	if err != nil {
		metrics.RecordEstimate("invalid", 0, 0)
		return models.SimulationResult{}, err
	}

	seed := e.cfg.Seed
	if seed == 0 {
		if seed, err = NewSeed(); err != nil {
			metrics.RecordEstimate("error", 0, 0)
			return models.SimulationResult{}, err
		}
	}

	began := time.Now()
	winsA, err := e.run(ctx, sim, start, trials, seed)
	elapsed := time.Since(began)
	if err != nil {
		metrics.RecordEstimate("cancelled", 0, elapsed.Seconds())
		return models.SimulationResult{}, err
	}

	result := models.NewSimulationResult(winsA, trials)
	metrics.RecordEstimate("success", trials, elapsed.Seconds())
	e.logger.WithFields(logrus.Fields{
		"component":         "simulation",
		"trials":            trials,
		"win_probability_a": result.WinProbabilityA,
		"start":             start.String(),
		"duration_ms":       elapsed.Milliseconds(),
	}).Debug("Estimate completed")

	return result, nil
}

func (e *Estimator) prepare(params models.MatchParameters, start models.ScoreState, trials int) (*Simulator, error) {
	if trials <= 0 {
		return nil, models.Invalid("trial_count", "must be positive, got %d", trials)
	}
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	sim := NewSimulator(params)
	if err := sim.Rules().Validate(start); err != nil {
		return nil, err
	}
	return sim, nil
}

func (e *Estimator) run(ctx context.Context, sim *Simulator, start models.ScoreState, trials int, seed int64) (int, error) {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > trials {
		workers = trials
	}

	// Worker seeds come from one master source so a fixed seed and worker
	// count replay the same draws.
	master := rand.New(rand.NewSource(seed))
	seeds := make([]int64, workers)
	for w := range seeds {
		seeds[w] = master.Int63()
	}

	wins := make([]int, workers)
	perWorker := trials / workers
	remaining := trials % workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remaining {
			n++
		}
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[w]))
			local := 0
			for i := 0; i < n; i++ {
				if i%chunkSize == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if sim.Play(start, rng).Winner == models.PlayerA {
					local++
				}
			}
			wins[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range wins {
		total += n
	}
	return total, nil
}
