package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	// LogFile, when set, receives a rotated copy of the JSON log stream.
	LogFile         string        `mapstructure:"log_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// CacheConfig selects and configures the entity cache backend.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend" validate:"required,oneof=memory redis"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	SessionLifetime time.Duration `mapstructure:"session_lifetime" validate:"gt=0"`
	CookieName      string        `mapstructure:"cookie_name" validate:"required"`
	BCryptCost      int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	// BootstrapAdminEmail, when set, makes the server create an Admin with
	// this email on startup if no employee uses it yet.
	BootstrapAdminEmail    string `mapstructure:"bootstrap_admin_email" validate:"omitempty,email"`
	BootstrapAdminPassword string `mapstructure:"bootstrap_admin_password" validate:"required_with=BootstrapAdminEmail,omitempty,min=8"`
}

// NotifyConfig configures how overdue-task reminders leave the service.
// "log" only records the reminder, "smtp" sends it directly and "amqp"
// queues it for cmd/mailer.
type NotifyConfig struct {
	Transport    string `mapstructure:"transport" validate:"required,oneof=log smtp amqp"`
	SMTPHost     string `mapstructure:"smtp_host" validate:"required_if=Transport smtp"`
	SMTPPort     int    `mapstructure:"smtp_port" validate:"gt=0,lt=65536"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	Sender       string `mapstructure:"sender" validate:"omitempty,email"`
	AMQPURL      string `mapstructure:"amqp_url" validate:"required_if=Transport amqp"`
	AMQPQueue    string `mapstructure:"amqp_queue" validate:"required"`
}
