// Package logger sets up the process slog logger (JSON, optionally teed to
// a rotating file) and carries request-scoped loggers through a context.
package logger
