package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hr-predictor/internal/database"
	"github.com/yourusername/hr-predictor/internal/models"
)

// PostgresLineupRepository implements LineupRepository for PostgreSQL
type PostgresLineupRepository struct {
	db *database.DB
}

// NewPostgresLineupRepository creates a new lineup repository
func NewPostgresLineupRepository(db *database.DB) LineupRepository {
	return &PostgresLineupRepository{db: db}
}

// SaveDay upserts the lineups of one game date
func (r *PostgresLineupRepository) SaveDay(ctx context.Context, day time.Time, entries []models.LineupEntry) error {
	if entries == nil {
		entries = []models.LineupEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode lineups: %w", err)
	}

	query := `
		INSERT INTO raw_lineup_days (game_date, entries, fetched_at)
		VALUES ($1, $2, now())
		ON CONFLICT (game_date) DO UPDATE
		SET entries = EXCLUDED.entries, fetched_at = EXCLUDED.fetched_at
	`
	if _, err := r.db.GetPool().Exec(ctx, query, models.TruncateDate(day), payload); err != nil {
		return fmt.Errorf("failed to save lineup day: %w", err)
	}
	return nil
}

// LoadDay returns the stored lineups of one game date; ok is false when the
// date was never stored
func (r *PostgresLineupRepository) LoadDay(ctx context.Context, day time.Time) ([]models.LineupEntry, bool, error) {
	query := `SELECT entries FROM raw_lineup_days WHERE game_date = $1`

	var payload []byte
	err := r.db.GetPool().QueryRow(ctx, query, models.TruncateDate(day)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get lineup day: %w", err)
	}

	var entries []models.LineupEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode lineups: %w", err)
	}
	return entries, true, nil
}
