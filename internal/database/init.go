package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hr-predictor/internal/config"
)

// schemaStatements create the raw data cache tables. One row holds one game
// date of fetched upstream data.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS raw_event_days (
		game_date  DATE PRIMARY KEY,
		columns    TEXT[] NOT NULL DEFAULT '{}',
		records    JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS raw_lineup_days (
		game_date  DATE PRIMARY KEY,
		entries    JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Initialize creates a database connection pool and ensures the raw data
// tables exist
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the raw data tables if they are missing
func EnsureSchema(ctx context.Context, db *DB) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
