// Package datasource loads historical serve records from files, remote
// services and the database.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/courtside/internal/models"
)

// Source yields historical serve records
type Source interface {
	// Records returns every record the source holds
	Records(ctx context.Context) ([]models.ServeRecord, error)

	// Name returns the name of the source
	Name() string
}

// SourceError represents errors from source operations
type SourceError struct {
	Source  string // Source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var (
	// ErrInvalidData marks malformed records
	ErrInvalidData = errors.New("invalid data format")
	// ErrCircuitOpen is returned while the HTTP client refuses requests
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) *SourceError {
	return &SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidateRecord checks a record has names and probabilities in [0,1]
func ValidateRecord(rec models.ServeRecord) error {
	if rec.PlayerA == "" || rec.PlayerB == "" {
		return fmt.Errorf("%w: player names are required", ErrInvalidData)
	}
	if rec.PlayerA == rec.PlayerB {
		return fmt.Errorf("%w: %q cannot play themselves", ErrInvalidData, rec.PlayerA)
	}
	for _, p := range []float64{rec.ServeWinA, rec.ServeWinB} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: serve win %v outside [0,1]", ErrInvalidData, p)
		}
	}
	return nil
}
