// Package testdb connects integration tests to a PostgreSQL database and
// keeps each test isolated in a rolled-back transaction.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/phrazzld/workforce-api/internal/platform/postgres"
	"gorm.io/gorm"
)

// Environment variables consulted for the database URL, in order.
const (
	EnvTestDatabaseURL = "WORKFORCE_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// ErrNoDatabase is returned when no database URL is configured.
var ErrNoDatabase = errors.New("no test database configured")

// URL returns the configured test database URL or "".
func URL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// IsCI reports whether the tests run in a CI environment, where a missing
// database is an error rather than a reason to skip.
func IsCI() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		if v := os.Getenv(name); v != "" && v != "false" && v != "0" {
			return true
		}
	}
	return false
}

// Open connects to the test database and applies every migration.
func Open(ctx context.Context, logger *slog.Logger) (*sql.DB, *gorm.DB, error) {
	url := URL()
	if url == "" {
		return nil, nil, ErrNoDatabase
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	sqlDB, gormDB, err := postgres.Open(ctx, url, 5, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, sqlDB, "up", logger); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return sqlDB, gormDB, nil
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t testing.TB, db *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin transaction: %v", tx.Error)
	}
	defer tx.Rollback()
	fn(tx)
}
