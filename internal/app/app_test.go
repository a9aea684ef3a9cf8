package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hr-predictor/internal/health"
	"github.com/yourusername/hr-predictor/internal/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "")

	cfg, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 10, cfg.Prediction.DefaultTopN)
}

func TestLoadConfigSecretsMisconfigured(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "true")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_SECRET_NAME", "")

	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewWithoutDatabase(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "")

	savant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("game_date,batter,pitcher,events,launch_speed,launch_angle\n"))
	}))
	defer savant.Close()
	statsAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dates":[]}`))
	}))
	defer statsAPI.Close()

	cfg, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Sources.Statcast.BaseURL = savant.URL
	cfg.Sources.StatsAPI.BaseURL = statsAPI.URL
	cfg.Sources.Statcast.ChunkDays = 3
	cfg.HTTPClient.RateLimit = 100

	a, err := New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	require.NotNil(t, a.Service)

	table, err := a.Service.ComputeMatchups(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 5)
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
}

func TestUpstreamCircuitShowsInReadiness(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	cfg, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Sources.Statcast.BaseURL = down.URL
	cfg.Sources.StatsAPI.BaseURL = down.URL
	cfg.HTTPClient.MaxRetries = 0
	cfg.HTTPClient.CircuitBreakerMax = 1
	cfg.HTTPClient.RateLimit = 100

	a, err := New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	hs := health.NewServer(health.Config{ServiceName: cfg.App.Name, Logger: logger.Discard(), Upstreams: a.Upstreams()})
	hs.SetReady(true)
	assert.False(t, a.Upstreams().IsOpen())

	table, err := a.Service.ComputeMatchups(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 5)
	require.NoError(t, err)
	assert.NotEmpty(t, table.Warnings)
	assert.True(t, a.Upstreams().IsOpen())

	rec := httptest.NewRecorder()
	hs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp health.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, health.StatusDegraded, resp.Status)
	assert.Equal(t, health.CheckCircuitOpen, resp.Checks["upstreams"])
}
