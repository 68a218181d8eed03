// Package main provides the courtside command line: quotes, the API server,
// dataset import and player listing.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/simulation"
	"github.com/yourusername/courtside/internal/stats"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.AddCommand(quoteCmd, serveCmd, importCmd, playersCmd)
}

var rootCmd = &cobra.Command{
	Use:           "courtside",
	Short:         "Tennis match pricing by Monte Carlo simulation",
	Long:          `Estimates match-win probabilities from per-player serve statistics, turns them into fair odds and Kelly stakes, and tracks live matches point by point.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"config":      configFile,
	}).Debug("Configuration loaded")

	return nil
}

// dependencies are the shared pieces every command builds from cfg
type dependencies struct {
	db        *database.DB
	repos     *repository.Repositories
	stats     *stats.Service
	estimator *simulation.Estimator
}

func (d *dependencies) Close() {
	if d.db != nil {
		d.db.Close()
	}
}

// setupDependencies connects to Postgres only when the stats source needs it.
func setupDependencies(ctx context.Context) (*dependencies, error) {
	deps := &dependencies{
		estimator: simulation.NewEstimator(simulation.EstimatorConfig{
			Workers: cfg.Simulation.Workers,
			Seed:    cfg.Simulation.Seed,
		}, appLog),
	}

	if cfg.UsesDatabase() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := database.Initialize(connectCtx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.db = db

		deps.repos, err = repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
	}

	source, err := datasource.NewFactory(deps.repos, appLog).NewSource(cfg.Stats)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create stats source: %w", err)
	}
	deps.stats = stats.NewServiceFromConfig(source, cfg.Stats, appLog)

	return deps, nil
}
