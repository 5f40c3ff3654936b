package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// WORKFORCE_DATABASE_URL for database.url.
const EnvPrefix = "WORKFORCE"

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. A .env file, when present, is loaded into the
// process environment first. Environment variables take precedence over
// values from config files.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadMailer reads the same sources as Load but validates only the server
// and notify sections. The reminder mailer never touches the database or
// issues sessions, so database.url and auth.jwt_secret may be unset. It does
// need a queue to consume and an SMTP relay to deliver through.
func LoadMailer() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(&cfg.Server); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := validate.Struct(&cfg.Notify); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Notify.AMQPURL == "" {
		return nil, fmt.Errorf("config validation failed: notify.amqp_url is required")
	}
	if cfg.Notify.SMTPHost == "" {
		return nil, fmt.Errorf("config validation failed: notify.smtp_host is required")
	}

	return cfg, nil
}

func read() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can populate it during
// Unmarshal, including keys that have no meaningful default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_file", "")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_lifetime", 8*time.Hour)
	v.SetDefault("auth.cookie_name", "workforce_session")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.bootstrap_admin_email", "")
	v.SetDefault("auth.bootstrap_admin_password", "")

	v.SetDefault("notify.transport", "log")
	v.SetDefault("notify.smtp_host", "")
	v.SetDefault("notify.smtp_port", 587)
	v.SetDefault("notify.smtp_username", "")
	v.SetDefault("notify.smtp_password", "")
	v.SetDefault("notify.sender", "")
	v.SetDefault("notify.amqp_url", "")
	v.SetDefault("notify.amqp_queue", "task_reminders")
}
