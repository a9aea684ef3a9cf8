package repository

import (
	"context"
	"time"

	"github.com/yourusername/hr-predictor/internal/models"
)

// EventRepository persists fetched Statcast events, one row per game date
type EventRepository interface {
	SaveDay(ctx context.Context, day time.Time, set *models.EventSet) error
	SaveDays(ctx context.Context, days map[time.Time]*models.EventSet) error
	LoadDay(ctx context.Context, day time.Time) (*models.EventSet, bool, error)
	LoadRange(ctx context.Context, start, end time.Time) (map[time.Time]*models.EventSet, error)
}

// LineupRepository persists fetched lineups, one row per game date
type LineupRepository interface {
	SaveDay(ctx context.Context, day time.Time, entries []models.LineupEntry) error
	LoadDay(ctx context.Context, day time.Time) ([]models.LineupEntry, bool, error)
}
