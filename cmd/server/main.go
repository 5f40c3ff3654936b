// Package main runs the workforce API server. With -migrate it applies
// database migrations instead of serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Fatalf("workforce-api: %v", err)
	}
}

// run loads configuration and either migrates the database or serves
// until ctx is cancelled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	sqlDB, gormDB, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = sqlDB.Close() }()
		return handleMigrations(ctx, sqlDB, migrateCmd, logger)
	}

	app, err := newApplication(ctx, cfg, logger, sqlDB, gormDB)
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	slog.Info("workforce API starting", "port", cfg.Server.Port)
	return app.Run(ctx)
}
