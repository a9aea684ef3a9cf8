package cache

import (
	"context"
	"time"

	"github.com/yourusername/hr-predictor/internal/datasource"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/metrics"
	"github.com/yourusername/hr-predictor/internal/models"
)

// Tiers that can resolve a cached day.
const (
	TierMemory   = "memory"
	TierStore    = "store"
	TierUpstream = "upstream"
)

// EventStore is the persistent tier for events
type EventStore interface {
	SaveDays(ctx context.Context, days map[time.Time]*models.EventSet) error
	LoadRange(ctx context.Context, start, end time.Time) (map[time.Time]*models.EventSet, error)
}

// LineupStore is the persistent tier for lineups
type LineupStore interface {
	SaveDay(ctx context.Context, day time.Time, entries []models.LineupEntry) error
	LoadDay(ctx context.Context, day time.Time) ([]models.LineupEntry, bool, error)
}

// settleGraceDays is how many local days must pass before a day's data is
// final. Late games end after local midnight.
const settleGraceDays = 1

// CachedEventSource resolves each day of a request from memory, then the
// store, then the upstream source. Only missing days are fetched; each
// contiguous run of missing days is one upstream call. Days that are not yet
// settled in the league time zone are kept in memory only.
type CachedEventSource struct {
	upstream datasource.EventSource
	memory   *EventCache
	store    EventStore
	logger   *logger.SourceLogger
	location *time.Location
	now      func() time.Time
}

// NewCachedEventSource wraps upstream. store may be nil.
func NewCachedEventSource(upstream datasource.EventSource, memory *EventCache, store EventStore, log *logger.SourceLogger) *CachedEventSource {
	if log == nil {
		log = logger.NewSourceLogger(logger.Discard())
	}
	return &CachedEventSource{
		upstream: upstream,
		memory:   memory,
		store:    store,
		logger:   log,
		location: time.UTC,
		now:      time.Now,
	}
}

// SetLocation sets the time zone that decides when a day is settled
func (s *CachedEventSource) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Name returns the name of the wrapped source
func (s *CachedEventSource) Name() string {
	return s.upstream.Name()
}

// FetchEvents returns the events of [start, end] in date order
func (s *CachedEventSource) FetchEvents(ctx context.Context, start, end time.Time) (*models.EventSet, error) {
	start, end = models.TruncateDate(start), models.TruncateDate(end)
	days := dayRange(start, end)
	resolved := make(map[time.Time]*models.EventSet, len(days))

	var missing []time.Time
	for _, day := range days {
		if set, ok := s.memory.Get(day); ok {
			resolved[day] = set
			s.recordLookup(day, TierMemory)
			continue
		}
		missing = append(missing, day)
	}

	if len(missing) > 0 && s.store != nil {
		stored, err := s.store.LoadRange(ctx, missing[0], missing[len(missing)-1])
		if err != nil {
			s.logger.WithError(err).WithField("source", s.Name()).Warn("Persistent cache unavailable, falling back to upstream")
		}
		remaining := missing[:0]
		for _, day := range missing {
			if set, ok := stored[day]; ok && set != nil {
				resolved[day] = set
				s.memory.Set(day, set)
				s.recordLookup(day, TierStore)
				continue
			}
			remaining = append(remaining, day)
		}
		missing = remaining
	}

	for _, gap := range contiguousRanges(missing) {
		began := time.Now()
		fetched, err := s.upstream.FetchEvents(ctx, gap[0], gap[1])
		metrics.RecordUpstreamFetch(s.Name(), time.Since(began).Seconds())
		if err != nil {
			return nil, err
		}

		byDay := fetched.SplitByDate(gap[0], gap[1])
		persist := make(map[time.Time]*models.EventSet, len(byDay))
		for day, set := range byDay {
			resolved[day] = set
			s.memory.Set(day, set)
			s.recordLookup(day, TierUpstream)
			if s.isSettled(day) {
				persist[day] = set
			}
		}

		if s.store != nil && len(persist) > 0 {
			if err := s.store.SaveDays(ctx, persist); err != nil {
				s.logger.LogCacheWriteFailure(s.Name(), gap[0], err)
			}
		}
	}

	result := models.NewEventSet(nil)
	for _, day := range days {
		result.Merge(resolved[day])
	}
	return result, nil
}

func (s *CachedEventSource) isSettled(day time.Time) bool {
	return isSettled(day, s.now(), s.location)
}

func (s *CachedEventSource) recordLookup(day time.Time, tier string) {
	metrics.RecordCacheLookup(s.Name(), tier)
	s.logger.LogCacheLookup(s.Name(), day, tier)
}

// CachedLineupSource resolves a day's lineups from memory, then the store,
// then the upstream source. Only settled days are persisted.
type CachedLineupSource struct {
	upstream datasource.LineupSource
	memory   *LineupCache
	store    LineupStore
	logger   *logger.SourceLogger
	location *time.Location
	now      func() time.Time
}

// NewCachedLineupSource wraps upstream. store may be nil.
func NewCachedLineupSource(upstream datasource.LineupSource, memory *LineupCache, store LineupStore, log *logger.SourceLogger) *CachedLineupSource {
	if log == nil {
		log = logger.NewSourceLogger(logger.Discard())
	}
	return &CachedLineupSource{
		upstream: upstream,
		memory:   memory,
		store:    store,
		logger:   log,
		location: time.UTC,
		now:      time.Now,
	}
}

// SetLocation sets the time zone that decides when a day is settled
func (s *CachedLineupSource) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Name returns the name of the wrapped source
func (s *CachedLineupSource) Name() string {
	return s.upstream.Name()
}

// FetchLineups returns the lineups of date
func (s *CachedLineupSource) FetchLineups(ctx context.Context, date time.Time) ([]models.LineupEntry, error) {
	day := models.TruncateDate(date)

	if entries, ok := s.memory.Get(day); ok {
		s.recordLookup(day, TierMemory)
		return entries, nil
	}

	if s.store != nil {
		entries, ok, err := s.store.LoadDay(ctx, day)
		if err != nil {
			s.logger.WithError(err).WithField("source", s.Name()).Warn("Persistent cache unavailable, falling back to upstream")
		}
		if ok {
			s.memory.Set(day, entries)
			s.recordLookup(day, TierStore)
			return entries, nil
		}
	}

	began := time.Now()
	entries, err := s.upstream.FetchLineups(ctx, day)
	metrics.RecordUpstreamFetch(s.Name(), time.Since(began).Seconds())
	if err != nil {
		return nil, err
	}

	s.memory.Set(day, entries)
	s.recordLookup(day, TierUpstream)
	if s.store != nil && isSettled(day, s.now(), s.location) {
		if err := s.store.SaveDay(ctx, day, entries); err != nil {
			s.logger.LogCacheWriteFailure(s.Name(), day, err)
		}
	}
	return entries, nil
}

func (s *CachedLineupSource) recordLookup(day time.Time, tier string) {
	metrics.RecordCacheLookup(s.Name(), tier)
	s.logger.LogCacheLookup(s.Name(), day, tier)
}

// isSettled reports whether day ended at least settleGraceDays before the
// current date in loc.
func isSettled(day, now time.Time, loc *time.Location) bool {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return day.Before(today.AddDate(0, 0, -settleGraceDays))
}

func dayRange(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// contiguousRanges folds sorted days into inclusive [first, last] runs
func contiguousRanges(days []time.Time) [][2]time.Time {
	var ranges [][2]time.Time
	for _, day := range days {
		n := len(ranges)
		if n > 0 && ranges[n-1][1].AddDate(0, 0, 1).Equal(day) {
			ranges[n-1][1] = day
			continue
		}
		ranges = append(ranges, [2]time.Time{day, day})
	}
	return ranges
}
