package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/sqlerr"
)

// DB is the slice of the connection pool the provisioner needs.
// *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateResult reports what CreateTable did.
type CreateResult int

const (
	// ResultFailed means the DDL was attempted and rejected by the
	// database.
	ResultFailed CreateResult = iota
	// ResultSkipped means nothing was attempted (unregistered table).
	ResultSkipped
	// ResultExists means the table was already present; no-op.
	ResultExists
	// ResultCreated means the table (and its indexes) were created.
	ResultCreated
)

// Provisioner reconciles the live database against the schema
// registry. It only ever creates tables that do not yet exist; it
// never alters existing ones.
//
// The pool is an explicit dependency so tests can substitute it and
// so there is exactly one place that owns teardown.
type Provisioner struct {
	db  DB
	log *zerolog.Logger
}

// NewProvisioner constructs a Provisioner on top of a pool handle.
func NewProvisioner(db DB, log *zerolog.Logger) *Provisioner {
	return &Provisioner{db: db, log: log}
}

// TableExists reports whether name exists in the live database.
// A merely-absent table is (false, nil), never an error.
func (p *Provisioner) TableExists(ctx context.Context, name Table) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx,
		"SELECT to_regclass($1) IS NOT NULL",
		string(name),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking existence of table %s: %w", name, err)
	}
	return exists, nil
}

// CreateTable creates name if it is registered and absent.
//
// Unknown tables are logged and reported as ResultSkipped with
// ErrUnregisteredTable; a present table is an idempotent no-op
// (ResultExists). Safe to call repeatedly for the same table and
// concurrently for different tables.
func (p *Provisioner) CreateTable(ctx context.Context, name Table) (CreateResult, error) {
	def, err := Definition(name)
	if err != nil {
		p.log.Error().Str("table", string(name)).Msg("no schema definition registered for table")
		return ResultSkipped, err
	}

	exists, err := p.TableExists(ctx, name)
	if err != nil {
		return ResultFailed, err
	}
	if exists {
		p.log.Debug().Str("table", string(name)).Msg("table already exists, skipping")
		return ResultExists, nil
	}

	stmts, err := Statements(def)
	if err != nil {
		return ResultFailed, err
	}

	for _, stmt := range stmts {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			err = sqlerr.Convert(err)
			return ResultFailed, fmt.Errorf("creating table %s: %w", name, err)
		}
	}

	p.log.Info().Str("table", string(name)).Msg("created table")
	return ResultCreated, nil
}

// DropTable unconditionally drops name if present; dropping an absent
// table is a no-op. It does not consult the registry, so reset flows
// can clear tables the registry no longer knows about. Dependent
// objects (the notifications foreign key) are dropped along with
// their target.
func (p *Provisioner) DropTable(ctx context.Context, name Table) error {
	stmt := "DROP TABLE IF EXISTS " + QuoteIdent(string(name)) + " CASCADE"
	if _, err := p.db.Exec(ctx, stmt); err != nil {
		err = sqlerr.Convert(err)
		return fmt.Errorf("dropping table %s: %w", name, err)
	}
	p.log.Debug().Str("table", string(name)).Msg("dropped table")
	return nil
}

// EnsureAll provisions every registered table, strictly sequentially
// in ProvisioningOrder so each foreign-key target is committed before
// the table that references it.
//
// Provisioning is best-effort per table: a failure is logged and the
// remaining sequence still runs. The pass never aborts startup, so
// EnsureAll returns nil once every table has been attempted.
func (p *Provisioner) EnsureAll(ctx context.Context) error {
	var created, existing, failed int

	for _, name := range ProvisioningOrder {
		result, err := p.CreateTable(ctx, name)
		if err != nil {
			failed++
			evt := p.log.Error().Err(err).Str("table", string(name))
			var sqlErr *sqlerr.Error
			if errors.As(err, &sqlErr) {
				evt = evt.
					Str("code", sqlErr.Code.String()).
					Str("detail", sqlerr.FriendlyMessage(sqlErr))
			}
			evt.Msg("failed to provision table")
			continue
		}
		switch result {
		case ResultCreated:
			created++
		case ResultExists:
			existing++
		}
	}

	p.log.Info().
		Int("created", created).
		Int("existing", existing).
		Int("failed", failed).
		Msg("schema provisioning pass complete")

	return nil
}
