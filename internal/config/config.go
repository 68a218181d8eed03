// Package config provides configuration management for courtside.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/courtside/internal/models"
)

// Stats source names
const (
	StatsSourceCSV      = "csv"
	StatsSourceHTTP     = "http"
	StatsSourcePostgres = "postgres"
)

// Fallback modes for pairings without serve statistics
const (
	FallbackNone              = "none"
	FallbackPopulationAverage = "population_average"
	FallbackFixed             = "fixed"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Staking    StakingConfig    `mapstructure:"staking" validate:"required"`
	Stats      StatsConfig      `mapstructure:"stats" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig represents Monte Carlo engine configuration
type SimulationConfig struct {
	BestOf         int    `mapstructure:"best_of" validate:"required,bestof"`
	TrialCount     int    `mapstructure:"trial_count" validate:"required,gt=0"`
	LiveTrialCount int    `mapstructure:"live_trial_count" validate:"required,gt=0"`
	Workers        int    `mapstructure:"workers" validate:"gte=0"`
	Seed           int64  `mapstructure:"seed"`
	Decider        string `mapstructure:"decider" validate:"required,decider"`
	FirstServer    string `mapstructure:"first_server" validate:"required,player"`
}

// StakingConfig represents bankroll and price override configuration
type StakingConfig struct {
	Bankroll        float64 `mapstructure:"bankroll" validate:"gte=0"`
	KellyMultiplier float64 `mapstructure:"kelly_multiplier" validate:"gt=0,lte=1"`
	MarketOddsA     float64 `mapstructure:"market_odds_a" validate:"omitempty,gt=1.01"`
	MarketOddsB     float64 `mapstructure:"market_odds_b" validate:"omitempty,gt=1.01"`
}

// StatsConfig represents the serve statistics provider configuration
type StatsConfig struct {
	Source          string          `mapstructure:"source" validate:"required,statsource"`
	Path            string          `mapstructure:"path"`
	URL             string          `mapstructure:"url" validate:"omitempty,url"`
	APIKey          string          `mapstructure:"api_key"`
	CacheTTLSeconds int             `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	RefreshSchedule string          `mapstructure:"refresh_schedule"`
	Fallback        FallbackConfig  `mapstructure:"fallback" validate:"required"`
	HTTP            StatsHTTPConfig `mapstructure:"http"`
}

// FallbackConfig represents the opt-in default for unknown pairings
type FallbackConfig struct {
	Mode  string  `mapstructure:"mode" validate:"required,fallback"`
	Value float64 `mapstructure:"value" validate:"gte=0,lte=1"`
}

// StatsHTTPConfig represents the remote stats client configuration
type StatsHTTPConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TracingConfig represents AWS X-Ray configuration
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DaemonAddr string `mapstructure:"daemon_addr"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesDatabase reports whether any component needs Postgres
func (c *Config) UsesDatabase() bool {
	return c.Stats.Source == StatsSourcePostgres
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// FirstServerPlayer returns the configured match-start server
func (s SimulationConfig) FirstServerPlayer() models.Player {
	p, err := models.ParsePlayer(s.FirstServer)
	if err != nil {
		return models.PlayerA
	}
	return p
}

// SetDecider returns the configured 6-6 policy
func (s SimulationConfig) SetDecider() models.Decider {
	return models.Decider(s.Decider)
}

// BankrollAmount returns the bankroll as a monetary amount
func (s StakingConfig) BankrollAmount() decimal.Decimal {
	return decimal.NewFromFloat(s.Bankroll).Round(2)
}

// CacheTTL returns the stats cache lifetime
func (s StatsConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}
