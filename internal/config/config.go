// Package config provides configuration management for the HR predictor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Sources    SourcesConfig    `mapstructure:"sources" validate:"required"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the optional postgres raw-data cache
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
	ConnectTimeoutSecs int    `mapstructure:"connect_timeout_seconds" validate:"omitempty,gt=0"`
}

// SourcesConfig groups the upstream data sources
type SourcesConfig struct {
	Statcast StatcastSourceConfig `mapstructure:"statcast" validate:"required"`
	StatsAPI StatsAPISourceConfig `mapstructure:"stats_api" validate:"required"`
}

// StatcastSourceConfig configures the Baseball Savant event feed
type StatcastSourceConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	ChunkDays int    `mapstructure:"chunk_days" validate:"required,gt=0,lte=3"`
}

// StatsAPISourceConfig configures the MLB Stats API lineup feed
type StatsAPISourceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	SportID int    `mapstructure:"sport_id" validate:"required,gt=0"`
}

// HTTPClientConfig configures the shared rate-limited HTTP client
type HTTPClientConfig struct {
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMillis int     `mapstructure:"retry_wait_min_millis" validate:"required,gt=0"`
	RetryWaitMaxMillis int     `mapstructure:"retry_wait_max_millis" validate:"required,gtefield=RetryWaitMinMillis"`
	RateLimit          float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax  int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	UserAgent          string  `mapstructure:"user_agent"`
}

// CacheConfig configures the in-memory raw-data cache
type CacheConfig struct {
	TTLMinutes     int `mapstructure:"ttl_minutes" validate:"required,gt=0"`
	CleanupMinutes int `mapstructure:"cleanup_minutes" validate:"required,gt=0"`
	MaxItems       int `mapstructure:"max_items" validate:"required,gt=0"`
}

// PredictionConfig configures the matchup pipeline
type PredictionConfig struct {
	DefaultTopN      int           `mapstructure:"default_top_n" validate:"required,gt=0"`
	SeasonStartMonth int           `mapstructure:"season_start_month" validate:"required,min=1,max=12"`
	SeasonStartDay   int           `mapstructure:"season_start_day" validate:"required,min=1,max=31"`
	Scoring          ScoringConfig `mapstructure:"scoring" validate:"required"`
}

// ScoringConfig holds the composite score weights
type ScoringConfig struct {
	BatterPower          float64 `mapstructure:"batter_power" validate:"gte=0,lte=1"`
	PitcherVulnerability float64 `mapstructure:"pitcher_vulnerability" validate:"gte=0,lte=1"`
	Barrel               float64 `mapstructure:"barrel" validate:"gte=0,lte=1"`
}

// SchedulerConfig configures cache warming
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	PrefetchCron string `mapstructure:"prefetch_cron" validate:"omitempty,cron"`
	Timezone     string `mapstructure:"timezone" validate:"omitempty,timezone"`
}

// ServerConfig configures the HTTP API and health endpoints
type ServerConfig struct {
	Port       int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort int `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

// CacheTTL returns the in-memory cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// CacheCleanupInterval returns the in-memory cache janitor interval
func (c *Config) CacheCleanupInterval() time.Duration {
	return time.Duration(c.Cache.CleanupMinutes) * time.Minute
}

// SchedulerLocation returns the scheduler's time zone, UTC if unset
func (c *Config) SchedulerLocation() *time.Location {
	if c.Scheduler.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
