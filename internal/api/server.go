// Package api serves ranked matchup tables as read-only JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/models"
	"github.com/yourusername/hr-predictor/internal/service"
)

// MatchupComputer runs the pipeline for a boundary request
type MatchupComputer interface {
	Compute(ctx context.Context, req service.PredictionRequest) (*models.MatchupTable, error)
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves /api/v1/* endpoints.
type Server struct {
	computer MatchupComputer
	port     string
	timeout  time.Duration
	location *time.Location
	logger   *logrus.Entry
	server   *http.Server
	now      func() time.Time
}

// NewServer creates a new API server. loc decides which date "today" is
// when a request omits one; nil means UTC.
func NewServer(computer MatchupComputer, port string, loc *time.Location, log *logrus.Logger) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		computer: computer,
		port:     port,
		timeout:  2 * time.Minute,
		location: loc,
		logger:   log.WithField("component", "api"),
		now:      time.Now,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/matchups", s.matchups)
	return mux
}

// Start starts the API server in the background and stops it when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: s.timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// matchups handles GET /api/v1/matchups?date=YYYY-MM-DD&top=N. date defaults
// to today in the server's location and top to the configured default.
func (s *Server) matchups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	req := service.PredictionRequest{Date: q.Get("date")}
	if req.Date == "" {
		req.Date = models.FormatDate(s.now().In(s.location))
	}
	if raw := q.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, "top must be an integer")
			return
		}
		req.TopN = &top
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	table, err := s.computer.Compute(ctx, req)
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.WithError(err).Error("Matchup computation failed")
		jsonErr(w, http.StatusInternalServerError, "matchup computation failed")
		return
	}

	jsonResp(w, http.StatusOK, table)
}

func jsonResp(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, ErrorResponse{Error: msg})
}
