package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNoMatchupData        = errors.New("no matchup data")
	ErrDegenerateOdds       = errors.New("degenerate odds")
	ErrMatchFinished        = errors.New("match already decided")
	ErrNotFound             = errors.New("record not found")
)

// ValidationError describes a single rejected input. It unwraps to
// ErrInvalidConfiguration so callers can match the whole class with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfiguration
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Invalid builds a ValidationError for field
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NoMatchupError reports a pairing the stats provider could not resolve
type NoMatchupError struct {
	PlayerA string
	PlayerB string
}

func (e *NoMatchupError) Error() string {
	return fmt.Sprintf("no serve statistics for %q vs %q", e.PlayerA, e.PlayerB)
}

// Unwrap returns ErrNoMatchupData
func (e *NoMatchupError) Unwrap() error {
	return ErrNoMatchupData
}
