// Package config provides configuration management for the HR predictor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "HR_PREDICTOR"

const defaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides work without a file
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hr-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "hr_predictor")
	v.SetDefault("database.user", "hr_predictor")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)
	v.SetDefault("database.connect_timeout_seconds", 30)

	v.SetDefault("sources.statcast.enabled", true)
	v.SetDefault("sources.statcast.base_url", "https://baseballsavant.mlb.com")
	v.SetDefault("sources.statcast.chunk_days", 1)
	v.SetDefault("sources.stats_api.enabled", true)
	v.SetDefault("sources.stats_api.base_url", "https://statsapi.mlb.com")
	v.SetDefault("sources.stats_api.sport_id", 1)

	v.SetDefault("http_client.timeout_seconds", 60)
	v.SetDefault("http_client.max_retries", 3)
	v.SetDefault("http_client.retry_wait_min_millis", 200)
	v.SetDefault("http_client.retry_wait_max_millis", 5000)
	v.SetDefault("http_client.rate_limit", 2.0)
	v.SetDefault("http_client.circuit_breaker_max", 5)
	v.SetDefault("http_client.user_agent", "hr-predictor/1.0")

	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.cleanup_minutes", 10)
	v.SetDefault("cache.max_items", 400)

	v.SetDefault("prediction.default_top_n", 10)
	v.SetDefault("prediction.season_start_month", 3)
	v.SetDefault("prediction.season_start_day", 1)
	v.SetDefault("prediction.scoring.batter_power", 0.45)
	v.SetDefault("prediction.scoring.pitcher_vulnerability", 0.45)
	v.SetDefault("prediction.scoring.barrel", 0.10)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.prefetch_cron", "0 10 * * *")
	v.SetDefault("scheduler.timezone", "America/New_York")

	v.SetDefault("server.port", 8081)
	v.SetDefault("server.health_port", 8080)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
