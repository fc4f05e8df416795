// Package database contains the logic for establishing connections to
// the PostgreSQL database.
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool)
//   - wiring query tracing/logging (pgx tracelog)
//   - connection checkout/release and pool teardown
//   - timezone normalization for timestamp columns
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/config"
	loggerPkg "github.com/casenotify/casenotify/internal/logger"
)

// DatabasePingTimeout is the number of seconds to wait for the startup
// ping before considering the database unreachable.
const DatabasePingTimeout = 10

// Database wraps the pgx connection pool and a logger.
//
// Pool is the shared connection pool. Every component that talks to
// the database (provisioner, batch writer, repositories) receives it
// as an explicit dependency; there is no package-level handle.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// New creates a PostgreSQL connection pool.
//
// Behavior:
//   - Build DSN safely (URL-escape password)
//   - Parse DSN into pgxpool config and apply pool tuning
//   - Pin the session timezone so timestamptz values come back in the
//     configured zone
//   - In development: attach a SQL tracelogger backed by zerolog
//   - Create the pool, ping it, and return Database
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	// net.JoinHostPort handles IPv6 literals correctly.
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))

	// URL-encode the password so characters like '@' or ':' cannot
	// break the DSN structure.
	encodedPassword := url.QueryEscape(cfg.Database.Password)

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		encodedPassword,
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		pgxPoolConfig.MaxConns = int32(cfg.Database.MaxConns)
	}
	if cfg.Database.MinConns > 0 {
		pgxPoolConfig.MinConns = int32(cfg.Database.MinConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second
	}

	// Every session reports timestamptz values in the configured zone,
	// so formatting is consistent no matter which pooled connection
	// served the query.
	pgxPoolConfig.ConnConfig.RuntimeParams["timezone"] = cfg.Primary.Timezone

	// In development, log every SQL statement through zerolog.
	// Too noisy for any other env.
	if cfg.IsDevelopment() {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerPkg.NewPgxLogger(globalLevel)

		pgxPoolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerPkg.GetPgxTraceLogLevel(globalLevel),
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	// Ping with a timeout so startup fails fast if the DB is down.
	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("connected to the database")

	return database, nil
}

// Close closes the database connection pool.
//
// pgxpool.Pool.Close is safe to call more than once.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
