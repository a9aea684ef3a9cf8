// Package health serves liveness, readiness and Prometheus metrics for the
// predictor binaries.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/metrics"
)

// DefaultPort is used when Config.Port is empty.
const DefaultPort = "8080"

// Check results reported under Response.Checks.
const (
	CheckOK          = "ok"
	CheckNotReady    = "not_ready"
	CheckCircuitOpen = "circuit_open"
)

// Overall statuses. A degraded service still answers requests, with
// upstream warnings in its tables.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusNotReady = "not_ready"
)

// DatabasePinger checks the raw-data store.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker reports whether upstream requests are being short-circuited.
type UpstreamChecker interface {
	IsOpen() bool
}

// Response is the JSON body of every endpoint.
type Response struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version,omitempty"`
	Commit    string            `json:"commit,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Duration  string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health server. DB and Upstreams
// are optional.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Upstreams   UpstreamChecker
	MetricsPath string
}

// Server answers /health, /live, /ready and, when configured, metrics.
type Server struct {
	cfg    Config
	ready  atomic.Bool
	logger *logrus.Entry
	server *http.Server
}

// NewServer creates a new health server.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		cfg:    cfg,
		logger: log.WithField("component", "health"),
	}
}

// SetReady marks whether the pipeline is wired and serving.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns the value last passed to SetReady.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleLive)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	return mux
}

// Start serves in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Health server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown stops the server, waiting up to five seconds for open requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{
		Status:    StatusOK,
		Service:   s.cfg.ServiceName,
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady fails while the service is not marked ready or the store is
// unreachable. An open upstream circuit only degrades it: tables are still
// served, with warnings.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	began := time.Now()
	checks, status := s.readiness(r.Context())

	code := http.StatusOK
	if status == StatusNotReady {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, Response{
		Status:   status,
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(began).String(),
	})
}

func (s *Server) readiness(ctx context.Context) (map[string]string, string) {
	checks := map[string]string{"service": CheckOK}
	status := StatusOK

	if !s.IsReady() {
		checks["service"] = CheckNotReady
		status = StatusNotReady
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = StatusNotReady
		} else {
			checks["database"] = CheckOK
		}
	}

	if s.cfg.Upstreams != nil {
		if s.cfg.Upstreams.IsOpen() {
			checks["upstreams"] = CheckCircuitOpen
			if status == StatusOK {
				status = StatusDegraded
			}
		} else {
			checks["upstreams"] = CheckOK
		}
	}

	return checks, status
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
