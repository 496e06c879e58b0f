// Package helpers provides shared setup for integration tests that need
// a real Postgres instance.
package helpers

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/database"
)

// SetupTestDB connects to the test database and applies the tracking
// schema. Tests are skipped when TEST_DB_HOST is unset so the suite can
// run without infrastructure.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set; skipping database integration test")
	}

	cfg := &config.DatabaseConfig{
		Host:           host,
		Port:           envInt("TEST_DB_PORT", 5432),
		User:           envDefault("TEST_DB_USER", "longball"),
		Password:       envDefault("TEST_DB_PASSWORD", "longball"),
		Name:           envDefault("TEST_DB_NAME", "longball_test"),
		SSLMode:        envDefault("TEST_DB_SSLMODE", "disable"),
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	require.NoError(t, err, "failed to initialize test database")
	return db
}

// TeardownTestDB truncates the tracking tables and closes the pool.
func TeardownTestDB(t *testing.T, db *database.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, table := range []string{"predictions", "accuracy_reports"} {
		if _, err := db.GetPool().Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
	db.Close()
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
