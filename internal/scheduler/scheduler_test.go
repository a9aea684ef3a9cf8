package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hr-predictor/internal/logger"
)

type recordingPrefetcher struct {
	dates []time.Time
	err   error
}

func (p *recordingPrefetcher) Prefetch(ctx context.Context, date time.Time) error {
	p.dates = append(p.dates, date)
	return p.err
}

func TestRunPrefetchUsesLocalDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	p := &recordingPrefetcher{}
	s := NewScheduler(p, ny, logger.Discard())
	// 02:00 UTC on June 2 is still June 1 in New York
	s.now = func() time.Time { return time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC) }

	require.NoError(t, s.RunPrefetch(context.Background()))
	require.Len(t, p.dates, 1)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), p.dates[0])
}

func TestRunPrefetchReportsError(t *testing.T) {
	p := &recordingPrefetcher{err: errors.New("upstream down")}
	s := NewScheduler(p, nil, logger.Discard())
	assert.Error(t, s.RunPrefetch(context.Background()))
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&recordingPrefetcher{}, time.UTC, logger.Discard())

	assert.Error(t, s.Start(), "no jobs scheduled")
	assert.Error(t, s.SchedulePrefetch("not a cron"))
	require.NoError(t, s.SchedulePrefetch("0 10 * * *"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Error(t, s.Start())
	assert.Error(t, s.SchedulePrefetch("0 11 * * *"))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}
