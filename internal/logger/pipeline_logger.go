// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for matchup pipeline runs.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// WithRun scopes the logger to a single pipeline run.
func (pl *PipelineLogger) WithRun(runID, date string) *PipelineLogger {
	return &PipelineLogger{
		Entry: pl.WithFields(logrus.Fields{
			"run_id": runID,
			"date":   date,
		}),
	}
}

// LogFeatureComputation logs the size of a computed feature table.
func (pl *PipelineLogger) LogFeatureComputation(kind string, events, rows int) {
	pl.WithFields(logrus.Fields{
		"feature_kind": kind,
		"events":       events,
		"rows":         rows,
	}).Debug("Feature table computed")
}

// LogSchemaDegradation logs a feature computed from its fallback because the
// feed lacked a column.
func (pl *PipelineLogger) LogSchemaDegradation(kind, feature, column string, fallback float64) {
	pl.WithFields(logrus.Fields{
		"feature_kind":   kind,
		"feature":        feature,
		"missing_column": column,
		"fallback":       fallback,
	}).Warn("Feed column missing, feature degraded to fallback")
}

// LogUpstreamUnavailable logs a collaborator failure that the pipeline
// absorbed.
func (pl *PipelineLogger) LogUpstreamUnavailable(source string, err error) {
	pl.WithFields(logrus.Fields{
		"source": source,
	}).WithError(err).Warn("Upstream unavailable, continuing with empty data")
}

// LogJoin logs join statistics.
func (pl *PipelineLogger) LogJoin(rows, batterMisses, pitcherMisses, pitcherUnknown int) {
	pl.WithFields(logrus.Fields{
		"rows":            rows,
		"batter_misses":   batterMisses,
		"pitcher_misses":  pitcherMisses,
		"pitcher_unknown": pitcherUnknown,
	}).Debug("Lineups joined to features")
}

// LogRankingCompleted logs the end of a run.
func (pl *PipelineLogger) LogRankingCompleted(candidates, returned int, topScore, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"candidates":  candidates,
		"returned":    returned,
		"top_score":   topScore,
		"duration_ms": durationMs,
	}).Info("Matchup ranking completed")
}
