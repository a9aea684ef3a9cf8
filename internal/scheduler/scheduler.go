// Package scheduler warms the raw data caches on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/models"
)

// Prefetcher loads the inputs of one date ahead of demand
type Prefetcher interface {
	Prefetch(ctx context.Context, date time.Time) error
}

// Scheduler manages scheduled prefetch jobs
type Scheduler struct {
	cron       *cron.Cron
	prefetcher Prefetcher
	location   *time.Location
	logger     *logrus.Entry
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
	now        func() time.Time
}

// NewScheduler creates a new scheduler evaluating cron expressions in loc
func NewScheduler(prefetcher Prefetcher, loc *time.Location, log *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		prefetcher: prefetcher,
		location:   loc,
		logger:     log.WithField("component", "scheduler"),
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 30 * time.Minute,
		now:        time.Now,
	}
}

// SchedulePrefetch schedules a daily prefetch of the current date's inputs
func (s *Scheduler) SchedulePrefetch(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		_ = s.RunPrefetch(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled prefetch job")

	return nil
}

// RunPrefetch prefetches the current date in the scheduler's time zone
func (s *Scheduler) RunPrefetch(ctx context.Context) error {
	local := s.now().In(s.location)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	log := s.logger.WithField("date", models.FormatDate(date))

	began := time.Now()
	log.Info("Starting scheduled prefetch")
	if err := s.prefetcher.Prefetch(ctx, date); err != nil {
		log.WithError(err).Error("Scheduled prefetch failed")
		return err
	}
	log.WithField("duration_ms", time.Since(began).Milliseconds()).Info("Scheduled prefetch completed")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
