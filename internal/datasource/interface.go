// Package datasource fetches raw Statcast events and daily lineups from the
// upstream MLB feeds.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/hr-predictor/internal/models"
)

// EventSource fetches batted-ball events for an inclusive date range
type EventSource interface {
	// FetchEvents retrieves every event played in [start, end]
	FetchEvents(ctx context.Context, start, end time.Time) (*models.EventSet, error)

	// Name returns the name of the data source
	Name() string
}

// LineupSource fetches the lineups announced for one date
type LineupSource interface {
	// FetchLineups retrieves one entry per batter slot for every game on date
	FetchLineups(ctx context.Context, date time.Time) ([]models.LineupEntry, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is makes every data source error match models.ErrUpstreamUnavailable
func (e DataSourceError) Is(target error) bool {
	return target == models.ErrUpstreamUnavailable
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeDisabled          = "disabled"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeCircuitOpen       = "circuit_open"
)

// ErrCircuitOpen is returned while the circuit breaker rejects requests
var ErrCircuitOpen = errors.New("circuit breaker open")

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
