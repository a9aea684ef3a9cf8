package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/config"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/models"
)

// Factory creates data source implementations based on configuration
type Factory struct {
	logger     *logrus.Logger
	config     *config.Config
	httpClient *RateLimitedHTTPClient
}

// NewFactory creates a new data source factory sharing one HTTP client
func NewFactory(cfg *config.Config, log *logrus.Logger) *Factory {
	return &Factory{
		logger:     log,
		config:     cfg,
		httpClient: NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg.HTTPClient), log),
	}
}

// HTTPClient returns the shared rate-limited client
func (f *Factory) HTTPClient() *RateLimitedHTTPClient {
	return f.httpClient
}

// NewEventSource creates the configured event source. A disabled feed yields
// a source that always reports itself unavailable.
func (f *Factory) NewEventSource() EventSource {
	sc := f.config.Sources.Statcast
	if !sc.Enabled {
		f.logger.WithField("source", StatcastSourceName).Info("Skipping disabled data source")
		return disabledSource{name: StatcastSourceName}
	}
	return NewStatcastClient(f.httpClient, sc.BaseURL, sc.ChunkDays, logger.NewSourceLogger(f.logger))
}

// NewLineupSource creates the configured lineup source
func (f *Factory) NewLineupSource() LineupSource {
	sa := f.config.Sources.StatsAPI
	if !sa.Enabled {
		f.logger.WithField("source", StatsAPISourceName).Info("Skipping disabled data source")
		return disabledSource{name: StatsAPISourceName}
	}
	return NewStatsAPIClient(f.httpClient, sa.BaseURL, sa.SportID, logger.NewSourceLogger(f.logger))
}

// Close releases the shared HTTP client
func (f *Factory) Close() error {
	return f.httpClient.Close()
}

type disabledSource struct {
	name string
}

func (d disabledSource) Name() string {
	return d.name
}

func (d disabledSource) FetchEvents(ctx context.Context, start, end time.Time) (*models.EventSet, error) {
	return nil, d.err()
}

func (d disabledSource) FetchLineups(ctx context.Context, date time.Time) ([]models.LineupEntry, error) {
	return nil, d.err()
}

func (d disabledSource) err() error {
	return NewDataSourceError(d.name, ErrCodeDisabled, fmt.Sprintf("data source %s is disabled", d.name), nil)
}
