package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/config"
)

// loadAppConfig loads the application configuration from the environment,
// an optional config.yaml and an optional .env file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_backend", cfg.Cache.Backend,
		"notify_transport", cfg.Notify.Transport)

	return cfg, nil
}
