package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Acquire checks a dedicated connection out of the shared pool.
//
// The connection is for exclusive use by the caller, for operations
// that must stay on one session (advisory locks, COPY loads, LISTEN).
// The caller owns it until it is handed back through CloseConn; pool
// errors are returned unchanged.
func (db *Database) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	return conn, nil
}

// CloseConn releases a connection obtained from Acquire.
//
// A nil conn tears down the entire pool: every idle connection is
// closed and in-flight acquisitions are invalidated. That path is for
// full shutdown and test teardown only. A non-nil conn is returned to
// the pool for reuse; the caller must not touch it afterwards.
func (db *Database) CloseConn(conn *pgxpool.Conn) {
	if conn == nil {
		db.log.Debug().Msg("destroying connection pool")
		db.Pool.Close()
		return
	}
	conn.Release()
}
