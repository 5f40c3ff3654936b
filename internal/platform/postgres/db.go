package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold is the duration above which queries are logged at warn.
const slowQueryThreshold = 200 * time.Millisecond

// Open connects to PostgreSQL through the pgx driver, verifies the
// connection and wraps it with GORM. The returned *sql.DB is shared with
// the GORM handle and is also used for migrations; closing it closes both.
func Open(ctx context.Context, url string, maxOpenConns int, logger *slog.Logger) (*sql.DB, *gorm.DB, error) {
	sqlDB, err := sql.Open("pgx", url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := NewGorm(sqlDB, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	return sqlDB, gormDB, nil
}

// NewGorm wraps an existing connection pool with GORM.
func NewGorm(sqlDB *sql.DB, logger *slog.Logger) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 NewGormLogger(logger),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}
	return gormDB, nil
}

// GormLogger forwards GORM's log output to slog.
type GormLogger struct {
	logger *slog.Logger
	level  gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger creates a GORM logger that reports errors and slow queries.
func NewGormLogger(logger *slog.Logger) *GormLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormLogger{
		logger: logger.With("component", "gorm"),
		level:  gormlogger.Warn,
	}
}

// LogMode implements gormlogger.Interface.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLogger{logger: l.logger, level: level}
}

// Info implements gormlogger.Interface.
func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Warn implements gormlogger.Interface.
func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Error implements gormlogger.Interface.
func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace implements gormlogger.Interface. SQL text is only logged at debug
// level because bound values may contain personal data.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		_, rows := fc()
		l.logger.ErrorContext(ctx, "query failed",
			"error", MapError(err),
			"rows", rows,
			"duration_ms", elapsed.Milliseconds())
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		_, rows := fc()
		l.logger.WarnContext(ctx, "slow query",
			"rows", rows,
			"duration_ms", elapsed.Milliseconds())
	case l.level >= gormlogger.Info && l.logger.Enabled(ctx, slog.LevelDebug):
		query, rows := fc()
		l.logger.DebugContext(ctx, "query",
			"sql", query,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds())
	}
}
