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

const errScanEventDay = "failed to scan event day: %w"

const upsertEventDayQuery = `
	INSERT INTO raw_event_days (game_date, columns, records, fetched_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (game_date) DO UPDATE
	SET columns = EXCLUDED.columns, records = EXCLUDED.records, fetched_at = EXCLUDED.fetched_at
`

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *database.DB
}

// NewPostgresEventRepository creates a new event repository
func NewPostgresEventRepository(db *database.DB) EventRepository {
	return &PostgresEventRepository{db: db}
}

// SaveDay upserts the events of one game date
func (r *PostgresEventRepository) SaveDay(ctx context.Context, day time.Time, set *models.EventSet) error {
	columns, payload, err := encodeEventSet(set)
	if err != nil {
		return err
	}

	if _, err := r.db.GetPool().Exec(ctx, upsertEventDayQuery, models.TruncateDate(day), columns, payload); err != nil {
		return fmt.Errorf("failed to save event day: %w", err)
	}
	return nil
}

// SaveDays upserts several game dates in one transaction
func (r *PostgresEventRepository) SaveDays(ctx context.Context, days map[time.Time]*models.EventSet) error {
	if len(days) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for day, set := range days {
			columns, payload, err := encodeEventSet(set)
			if err != nil {
				return err
			}
			batch.Queue(upsertEventDayQuery, models.TruncateDate(day), columns, payload)
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to save event days: %w", err)
			}
		}
		return results.Close()
	})
}

// LoadDay returns the stored events of one game date; ok is false when the
// date was never stored
func (r *PostgresEventRepository) LoadDay(ctx context.Context, day time.Time) (*models.EventSet, bool, error) {
	query := `SELECT columns, records FROM raw_event_days WHERE game_date = $1`

	var columns []string
	var payload []byte
	err := r.db.GetPool().QueryRow(ctx, query, models.TruncateDate(day)).Scan(&columns, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get event day: %w", err)
	}

	set, err := decodeEventSet(columns, payload)
	if err != nil {
		return nil, false, err
	}
	return set, true, nil
}

// LoadRange returns every stored game date in [start, end]
func (r *PostgresEventRepository) LoadRange(ctx context.Context, start, end time.Time) (map[time.Time]*models.EventSet, error) {
	query := `
		SELECT game_date, columns, records
		FROM raw_event_days
		WHERE game_date BETWEEN $1 AND $2
		ORDER BY game_date
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.TruncateDate(start), models.TruncateDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query event days: %w", err)
	}
	defer rows.Close()

	days := make(map[time.Time]*models.EventSet)
	for rows.Next() {
		var day time.Time
		var columns []string
		var payload []byte
		if err := rows.Scan(&day, &columns, &payload); err != nil {
			return nil, fmt.Errorf(errScanEventDay, err)
		}
		set, err := decodeEventSet(columns, payload)
		if err != nil {
			return nil, err
		}
		days[models.TruncateDate(day)] = set
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event days: %w", err)
	}
	return days, nil
}

func encodeEventSet(set *models.EventSet) ([]string, []byte, error) {
	if set == nil {
		set = models.NewEventSet(nil)
	}
	records := set.Records
	if records == nil {
		records = []models.EventRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode events: %w", err)
	}
	columns := set.Columns
	if columns == nil {
		columns = []string{}
	}
	return columns, payload, nil
}

func decodeEventSet(columns []string, payload []byte) (*models.EventSet, error) {
	var records []models.EventRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return models.NewEventSet(records, columns...), nil
}
