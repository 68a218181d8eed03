package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/api"
	"github.com/yourusername/courtside/internal/health"
	"github.com/yourusername/courtside/internal/live"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/scheduler"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pricing API",
	Long:  `Serves quotes and live sessions over HTTP with health, readiness and metrics endpoints, and refreshes serve statistics on the configured schedule.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	pricing := service.NewPricingService(deps.estimator, deps.stats, service.PricingConfigFromConfig(cfg), appLog)

	var checkOrigin func(r *http.Request) bool
	if cfg.IsDevelopment() {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	hub := live.NewHub(checkOrigin, appLog)
	sessions := live.NewManager(deps.estimator, deps.stats, hub, live.Config{
		BestOf:      cfg.Simulation.BestOf,
		Decider:     cfg.Simulation.SetDecider(),
		FirstServer: cfg.Simulation.FirstServerPlayer(),
		Trials:      cfg.Simulation.LiveTrialCount,
	}, appLog)

	checks := map[string]health.Pinger{"stats": deps.stats}
	if deps.db != nil {
		checks["database"] = deps.db
	}

	healthCfg := health.Config{
		ServiceName:  "courtside",
		Version:      Version,
		Commit:       GitCommit,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		Logger:       appLog,
		Checks:       checks,
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.MetricsHandler = metrics.Handler()
	}

	traceCfg := tracing.Config{
		ServiceName:    "courtside",
		ServiceVersion: Version,
		Enabled:        cfg.Tracing.Enabled,
		DaemonAddr:     cfg.Tracing.DaemonAddr,
	}
	if err := tracing.Initialize(traceCfg, appLog); err != nil {
		return err
	}

	server := health.NewServer(healthCfg)
	server.Mount("/v1/", tracing.Middleware(traceCfg, api.NewHandler(pricing, deps.stats, sessions, hub, appLog)))

	var sched *scheduler.Scheduler
	if cfg.Stats.RefreshSchedule != "" {
		sched = scheduler.NewScheduler(appLog)
		if err := sched.ScheduleRefresh(cfg.Stats.RefreshSchedule, "stats_refresh", deps.stats); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	// Warm the cache so the first quote does not pay for the load.
	if err := deps.stats.Refresh(ctx); err != nil {
		appLog.WithError(err).Warn("Initial stats load failed; readiness will report it")
	}

	if err := server.Start(ctx); err != nil {
		return err
	}
	server.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"port":        cfg.Server.Port,
		"environment": cfg.App.Environment,
		"stats":       cfg.Stats.Source,
		"version":     Version,
	}).Info("Courtside started")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	server.SetReady(false)

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}

	if err := server.Shutdown(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.WithError(err).Error("HTTP server shutdown failed")
	}
	return nil
}
