package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/platform/postgres"
	"gorm.io/gorm"
)

// setupAppDatabase opens the connection pool and verifies it responds.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, *gorm.DB, error) {
	sqlDB, gormDB, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established",
		"max_open_conns", cfg.Database.MaxOpenConns)
	return sqlDB, gormDB, nil
}
