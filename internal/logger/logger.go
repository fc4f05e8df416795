// Package logger configures the application's logging.
//
// It uses *ZeroLog* for structured logging and provides the adapter
// glue needed to route pgx SQL statement logs through the same sink.
package logger

import (
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/config"
)

// New builds the application's main logger.
//
// In development, logs are written as human-friendly console lines to
// STDERR at debug level. In every other env, logs are JSON at info
// level, which is what log shippers expect.
func New(cfg *config.Config) *zerolog.Logger {
	var log zerolog.Logger

	if cfg.IsDevelopment() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger().
			Level(zerolog.DebugLevel)
	} else {
		log = zerolog.New(os.Stderr).
			With().
			Timestamp().
			Str("service", "casenotify").
			Logger().
			Level(zerolog.InfoLevel)
	}

	return &log
}

// NewPgxLogger derives a logger for pgx query output.
//
// Kept separate from the main logger so SQL noise is tagged and can be
// filtered independently.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger().
		Level(level)
}

// GetPgxTraceLogLevel converts a zerolog level into the pgx tracelog
// level that produces a comparable amount of output.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
