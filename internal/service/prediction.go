// Package service runs the home-run matchup pipeline end to end.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/config"
	"github.com/yourusername/hr-predictor/internal/datasource"
	"github.com/yourusername/hr-predictor/internal/features"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/matchup"
	"github.com/yourusername/hr-predictor/internal/metrics"
	"github.com/yourusername/hr-predictor/internal/models"
)

// Run outcomes recorded in metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeInvalid  = "invalid"
)

// PredictionService computes ranked matchup tables. It holds no per-run
// state, so concurrent calls are safe and repeated calls over the same
// upstream data return identical tables.
type PredictionService struct {
	events           datasource.EventSource
	lineups          datasource.LineupSource
	batters          *features.BatterComputer
	pitchers         *features.PitcherComputer
	joiner           *matchup.Joiner
	scorer           *matchup.Scorer
	ranker           *matchup.Ranker
	seasonStartMonth time.Month
	seasonStartDay   int
	defaultTopN      int
	logger           *logger.PipelineLogger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	events datasource.EventSource,
	lineups datasource.LineupSource,
	cfg config.PredictionConfig,
	log *logrus.Logger,
) (*PredictionService, error) {
	if events == nil || lineups == nil {
		return nil, fmt.Errorf("event and lineup sources are required")
	}
	if log == nil {
		log = logger.Discard()
	}

	weights := matchup.Weights{
		BatterPower:          cfg.Scoring.BatterPower,
		PitcherVulnerability: cfg.Scoring.PitcherVulnerability,
		Barrel:               cfg.Scoring.Barrel,
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	month, day := time.Month(cfg.SeasonStartMonth), cfg.SeasonStartDay
	if month < time.January || month > time.December {
		month = time.March
	}
	if day < 1 || day > 31 {
		day = 1
	}

	topN := cfg.DefaultTopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	return &PredictionService{
		events:           events,
		lineups:          lineups,
		batters:          features.NewBatterComputer(),
		pitchers:         features.NewPitcherComputer(),
		joiner:           matchup.NewJoiner(),
		scorer:           matchup.NewScorer(weights),
		ranker:           matchup.NewRanker(),
		seasonStartMonth: month,
		seasonStartDay:   day,
		defaultTopN:      topN,
		logger:           logger.NewPipelineLogger(log),
	}, nil
}

// DefaultTopN returns the row count used when a request does not name one
func (s *PredictionService) DefaultTopN() int {
	return s.defaultTopN
}

// SeasonWindow returns the inclusive event window for date: the season start
// of date's year through date, or just date when it precedes the season start.
func (s *PredictionService) SeasonWindow(date time.Time) (time.Time, time.Time) {
	end := models.TruncateDate(date)
	start := time.Date(end.Year(), s.seasonStartMonth, s.seasonStartDay, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		start = end
	}
	return start, end
}

// ComputeMatchups ranks the batters in date's lineups against their opposing
// starters and returns the best topN. Upstream failures never fail the call:
// the affected input is treated as empty and a warning is added to the table.
// A topN of zero or less yields an empty table.
func (s *PredictionService) ComputeMatchups(ctx context.Context, date time.Time, topN int) (*models.MatchupTable, error) {
	if date.IsZero() {
		metrics.PipelineRunsTotal.WithLabelValues(OutcomeInvalid).Inc()
		return nil, fmt.Errorf("%w: date is required", models.ErrInvalidRequest)
	}

	began := time.Now()
	day := models.TruncateDate(date)
	runLog := s.logger.WithRun(uuid.NewString(), models.FormatDate(day))
	start, end := s.SeasonWindow(day)

	table := &models.MatchupTable{Date: day, TopN: topN}

	events, err := s.events.FetchEvents(ctx, start, end)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.upstreamUnavailable(runLog, table, s.events.Name(), err)
		events = models.NewEventSet(nil)
	}

	entries, err := s.lineups.FetchLineups(ctx, day)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.upstreamUnavailable(runLog, table, s.lineups.Name(), err)
		entries = nil
	}

	batterRows, batterDegradations := s.batters.Compute(events)
	runLog.LogFeatureComputation(features.KindBatter, events.Len(), len(batterRows))
	pitcherRows, pitcherDegradations := s.pitchers.Compute(events)
	runLog.LogFeatureComputation(features.KindPitcher, events.Len(), len(pitcherRows))

	for _, d := range append(batterDegradations, pitcherDegradations...) {
		runLog.LogSchemaDegradation(d.Kind, d.Feature, d.Column, d.Fallback)
		metrics.RecordSchemaDegradation(d.Kind, d.Feature)
		table.Warnings = append(table.Warnings, fmt.Sprintf("%s: %s feature %s uses fallback %g (column %s missing)",
			models.ErrSchemaMismatch, d.Kind, d.Feature, d.Fallback, d.Column))
	}

	rows, stats := s.joiner.Join(entries, features.IndexBatters(batterRows), features.IndexPitchers(pitcherRows))
	runLog.LogJoin(stats.Rows, stats.BatterMisses, stats.PitcherMisses, stats.PitcherUnknown)
	metrics.RecordJoinMisses(features.KindBatter, stats.BatterMisses)
	metrics.RecordJoinMisses(features.KindPitcher, stats.PitcherMisses)
	metrics.RecordJoinMisses("pitcher_unknown", stats.PitcherUnknown)

	s.scorer.ScoreAll(rows)
	table.Rows = s.ranker.Rank(rows, topN)

	topScore := 0.0
	if len(table.Rows) > 0 {
		topScore = table.Rows[0].CompositeScore
	}
	outcome := OutcomeSuccess
	if len(table.Warnings) > 0 {
		outcome = OutcomeDegraded
	}
	duration := time.Since(began)
	metrics.RecordPipelineRun(outcome, duration.Seconds(), len(table.Rows), topScore)
	runLog.LogRankingCompleted(len(rows), len(table.Rows), topScore, float64(duration.Milliseconds()))

	return table, nil
}

// Compute validates a boundary request and runs the pipeline
func (s *PredictionService) Compute(ctx context.Context, req PredictionRequest) (*models.MatchupTable, error) {
	date, topN, err := req.Resolve(s.defaultTopN)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(OutcomeInvalid).Inc()
		return nil, err
	}
	return s.ComputeMatchups(ctx, date, topN)
}

// Prefetch loads the season window and lineups of date through the sources,
// warming any caches they sit behind. Unlike ComputeMatchups it reports
// upstream failures.
func (s *PredictionService) Prefetch(ctx context.Context, date time.Time) error {
	start, end := s.SeasonWindow(date)
	var errs []error
	if _, err := s.events.FetchEvents(ctx, start, end); err != nil {
		metrics.RecordUpstreamFailure(s.events.Name())
		errs = append(errs, fmt.Errorf("prefetch events: %w", err))
	}
	if _, err := s.lineups.FetchLineups(ctx, end); err != nil {
		metrics.RecordUpstreamFailure(s.lineups.Name())
		errs = append(errs, fmt.Errorf("prefetch lineups: %w", err))
	}
	return errors.Join(errs...)
}

func (s *PredictionService) upstreamUnavailable(runLog *logger.PipelineLogger, table *models.MatchupTable, source string, err error) {
	runLog.LogUpstreamUnavailable(source, err)
	metrics.RecordUpstreamFailure(source)
	table.Warnings = append(table.Warnings, fmt.Sprintf("%s: %s: %v", models.ErrUpstreamUnavailable, source, err))
}
