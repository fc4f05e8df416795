// Command casenotify provisions the notification application's
// database schema.
//
// It loads configuration from the environment, connects the pool, and
// runs one best-effort provisioning pass over every registered table.
// Missing tables are created in dependency order; existing tables are
// left untouched.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/config"
	"github.com/casenotify/casenotify/internal/logger"
	"github.com/casenotify/casenotify/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No config means no configured logger yet; use a bare one.
		bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg)

	ctx := context.Background()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer func() {
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// Best-effort by design: a single failing table must not prevent
	// the rest of the schema from provisioning.
	if err := srv.Schema.EnsureAll(ctx); err != nil {
		log.Error().Err(err).Msg("schema provisioning pass failed")
	}
}
