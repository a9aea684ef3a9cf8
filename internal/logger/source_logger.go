// Package logger provides data source logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SourceLogger provides dedicated logging for upstream fetches and the raw
// data cache.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new source logger.
func NewSourceLogger(baseLogger *logrus.Logger) *SourceLogger {
	return &SourceLogger{
		Entry: baseLogger.WithField("component", "datasource"),
	}
}

// LogFetch logs a completed upstream fetch.
func (sl *SourceLogger) LogFetch(source string, start, end time.Time, records int, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"source":      source,
		"start":       start.Format("2006-01-02"),
		"end":         end.Format("2006-01-02"),
		"records":     records,
		"duration_ms": duration.Milliseconds(),
	}).Info("Upstream fetch completed")
}

// LogCacheLookup logs how a day was resolved by the read-through cache.
func (sl *SourceLogger) LogCacheLookup(source string, day time.Time, tier string) {
	sl.WithFields(logrus.Fields{
		"source": source,
		"day":    day.Format("2006-01-02"),
		"tier":   tier,
	}).Debug("Cache lookup resolved")
}

// LogCacheWriteFailure logs a failed write to the persistent cache.
func (sl *SourceLogger) LogCacheWriteFailure(source string, day time.Time, err error) {
	sl.WithFields(logrus.Fields{
		"source": source,
		"day":    day.Format("2006-01-02"),
	}).WithError(err).Warn("Failed to persist cached day")
}

// LogRejectedRecord logs an upstream record dropped by validation.
func (sl *SourceLogger) LogRejectedRecord(source, record string, problems []string) {
	sl.WithFields(logrus.Fields{
		"source":   source,
		"record":   record,
		"problems": problems,
	}).Warn("Rejected upstream record")
}
