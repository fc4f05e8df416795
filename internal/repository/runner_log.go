package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/schema"
	"github.com/casenotify/casenotify/internal/sqlerr"
)

// Runner identifies a background runner whose executions are recorded
// in log_runners. The values mirror the CHECK constraint on the
// runner column.
type Runner string

const (
	RunnerSendReminder Runner = "send_reminder"
	RunnerSendExpired  Runner = "send_expired"
	RunnerSendMatched  Runner = "send_matched"
	RunnerLoad         Runner = "load"
)

// RunnerLogRepository records runner executions into log_runners.
type RunnerLogRepository struct {
	db  schema.DB
	log *zerolog.Logger
}

// NewRunnerLogRepository constructs a RunnerLogRepository.
func NewRunnerLogRepository(db schema.DB, log *zerolog.Logger) *RunnerLogRepository {
	return &RunnerLogRepository{db: db, log: log}
}

// RecordRun inserts one execution record: how many items the runner
// processed and how many of them errored. The row timestamp defaults
// to now() in the database.
func (r *RunnerLogRepository) RecordRun(ctx context.Context, runner Runner, count, errorCount int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO "log_runners" ("runner", "count", "error_count") VALUES ($1, $2, $3)`,
		string(runner), count, errorCount,
	)
	if err != nil {
		err = sqlerr.Convert(err)
		return fmt.Errorf("recording %s run: %w", runner, err)
	}

	r.log.Debug().
		Str("runner", string(runner)).
		Int("count", count).
		Int("error_count", errorCount).
		Msg("recorded runner execution")

	return nil
}
