// Package app wires configuration into a ready prediction pipeline for the
// binaries.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/cache"
	"github.com/yourusername/hr-predictor/internal/config"
	"github.com/yourusername/hr-predictor/internal/database"
	"github.com/yourusername/hr-predictor/internal/datasource"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/repository"
	"github.com/yourusername/hr-predictor/internal/service"
)

// App holds the long-lived dependencies shared by the binaries.
type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	DB      *database.DB
	Service *service.PredictionService

	factory *datasource.Factory
}

// New builds the upstream clients, the read-through caches and, when the
// database is enabled, the persistent raw-data store behind them.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	factory := datasource.NewFactory(cfg, log)

	var (
		eventStore  cache.EventStore
		lineupStore cache.LineupStore
		db          *database.DB
	)
	if cfg.Database.Enabled {
		var err error
		db, err = database.Initialize(ctx, cfg, log)
		if err != nil {
			factory.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			factory.Close()
			return nil, err
		}
		eventStore = repos.Events
		lineupStore = repos.Lineups
	}

	sourceLog := logger.NewSourceLogger(log)
	events := cache.NewCachedEventSource(
		factory.NewEventSource(),
		cache.NewEventCache(cfg.CacheTTL(), cfg.CacheCleanupInterval(), cfg.Cache.MaxItems),
		eventStore,
		sourceLog,
	)
	lineups := cache.NewCachedLineupSource(
		factory.NewLineupSource(),
		cache.NewLineupCache(cfg.CacheTTL(), cfg.CacheCleanupInterval(), cfg.Cache.MaxItems),
		lineupStore,
		sourceLog,
	)

	events.SetLocation(cfg.SchedulerLocation())
	lineups.SetLocation(cfg.SchedulerLocation())

	svc, err := service.NewPredictionService(events, lineups, cfg.Prediction, log)
	if err != nil {
		if db != nil {
			db.Close()
		}
		factory.Close()
		return nil, fmt.Errorf("failed to create prediction service: %w", err)
	}

	return &App{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Service: svc,
		factory: factory,
	}, nil
}

// LoadConfig reads the optional config file, overlays secrets and validates
// the result.
func LoadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplySecretsFromEnv(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Upstreams returns the HTTP client shared by every upstream source, whose
// circuit breaker state feeds readiness.
func (a *App) Upstreams() *datasource.RateLimitedHTTPClient {
	return a.factory.HTTPClient()
}

// Close releases the HTTP client and database pool.
func (a *App) Close() {
	if a.factory != nil {
		a.factory.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
