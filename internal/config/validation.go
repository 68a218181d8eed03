package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/courtside/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("bestof", validateBestOf)
	_ = v.RegisterValidation("decider", validateDecider)
	_ = v.RegisterValidation("player", validatePlayer)
	_ = v.RegisterValidation("statsource", validateStatSource)
	_ = v.RegisterValidation("fallback", validateFallback)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateBestOf(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n == 3 || n == 5
}

func validateDecider(fl validator.FieldLevel) bool {
	return models.Decider(fl.Field().String()).Valid()
}

func validatePlayer(fl validator.FieldLevel) bool {
	_, err := models.ParsePlayer(fl.Field().String())
	return err == nil
}

func validateStatSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StatsSourceCSV, StatsSourceHTTP, StatsSourcePostgres:
		return true
	default:
		return false
	}
}

func validateFallback(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case FallbackNone, FallbackPopulationAverage, FallbackFixed:
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Simulation.LiveTrialCount > cfg.Simulation.TrialCount {
		return fmt.Errorf("live_trial_count cannot exceed trial_count")
	}

	switch cfg.Stats.Source {
	case StatsSourceCSV:
		if cfg.Stats.Path == "" {
			return fmt.Errorf("stats.path is required for the csv source")
		}
	case StatsSourceHTTP:
		if cfg.Stats.URL == "" {
			return fmt.Errorf("stats.url is required for the http source")
		}
	case StatsSourcePostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required for the postgres source")
		}
	}

	if cfg.Stats.Fallback.Mode == FallbackFixed && (cfg.Stats.Fallback.Value <= 0 || cfg.Stats.Fallback.Value > 1) {
		return fmt.Errorf("stats.fallback.value must be in (0,1] for the fixed fallback")
	}

	if cfg.Stats.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Stats.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid stats.refresh_schedule: %w", err)
		}
	}

	if cfg.IsProduction() && cfg.UsesDatabase() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "bestof":
			fmt.Fprintf(&b, "- Field '%s' must be 3 or 5, got '%v'\n", field, value)
		case "decider":
			fmt.Fprintf(&b, "- Field '%s' must be one of: weighted_trial, tiebreak\n", field)
		case "player":
			fmt.Fprintf(&b, "- Field '%s' must be A or B\n", field)
		case "statsource":
			fmt.Fprintf(&b, "- Field '%s' must be one of: csv, http, postgres\n", field)
		case "fallback":
			fmt.Fprintf(&b, "- Field '%s' must be one of: none, population_average, fixed\n", field)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
