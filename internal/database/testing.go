package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/hr-predictor/internal/config"
	"github.com/yourusername/hr-predictor/internal/logger"
)

// TestDatabaseEnv names the variable pointing at a config file for
// integration tests. Tests skip when it is unset.
const TestDatabaseEnv = "HR_PREDICTOR_TEST_CONFIG"

// SetupTestDB creates a test database connection with the schema applied
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestDatabaseEnv)
	if path == "" {
		t.Skipf("Integration test - set %s to a config with database settings", TestDatabaseEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg, logger.Discard())
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	return db
}

// TeardownTestDB truncates the raw data tables and closes the connection
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.GetPool().Exec(ctx, "TRUNCATE raw_event_days, raw_lineup_days"); err != nil {
		t.Logf("warning: failed to truncate test tables: %v", err)
	}
	db.Close()
}
