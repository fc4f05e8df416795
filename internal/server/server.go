// Package server defines the core Server struct that composes the
// app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - database pool
//   - schema provisioner
//   - batch writer
//
// It provides a constructor and shutdown logic so the application
// starts and stops cleanly.
package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/batch"
	"github.com/casenotify/casenotify/internal/config"
	"github.com/casenotify/casenotify/internal/database"
	"github.com/casenotify/casenotify/internal/schema"
)

// Server is the application container that holds shared resources.
// It is passed into repositories and runners so every component sees
// the same pool, logger, and config.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Timestamps renders timestamptz values in the configured zone.
	Timestamps *database.TimestampFormatter

	// Schema reconciles the live database against the registry.
	Schema *schema.Provisioner

	// Batch performs chunked transactional inserts.
	Batch *batch.Writer
}

// New constructs a Server and initializes core dependencies.
//
// Initialization performed:
//   - PostgreSQL pool (pings the database)
//   - timestamp formatter for the configured timezone
//   - schema provisioner and batch writer on top of the pool
//
// It does not provision the schema; callers run s.Schema.EnsureAll
// once the container is up.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	timestamps, err := database.NewTimestampFormatter(cfg.Primary.Timezone)
	if err != nil {
		db.Pool.Close()
		return nil, fmt.Errorf("failed to initialize timestamp formatter: %w", err)
	}

	return &Server{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Timestamps: timestamps,
		Schema:     schema.NewProvisioner(db.Pool, logger),
		Batch:      batch.NewWriter(db.Pool, logger),
	}, nil
}

// Shutdown releases the shared resources, closing the database pool.
func (s *Server) Shutdown() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
