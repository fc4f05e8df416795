// Package batch implements chunked, transactional bulk inserts.
//
// Large writes are split into fixed-size chunks to stay under driver
// statement limits, while the whole call remains one transaction:
// either every chunk commits or none of them are visible.
package batch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/schema"
	"github.com/casenotify/casenotify/internal/sqlerr"
)

// Row is one record to insert, keyed by column name. Columns missing
// from a row are inserted as NULL.
type Row = map[string]any

// Beginner is the slice of the connection pool the writer needs.
// *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionError reports that a batch insert was rolled back. The
// entire batch is atomic: when any chunk fails, no rows from any chunk
// remain visible.
//
// Chunk is the zero-based index of the failing chunk, or CommitFailed
// when every chunk executed and the commit itself was rejected.
type TransactionError struct {
	Table string
	Chunk int
	Err   error
}

// CommitFailed is the TransactionError.Chunk value for a failure at
// commit time rather than in any chunk's statement.
const CommitFailed = -1

func (e *TransactionError) Error() string {
	if e.Chunk == CommitFailed {
		return fmt.Sprintf("batch insert into %s rolled back at commit: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("batch insert into %s rolled back at chunk %d: %v", e.Table, e.Chunk, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Writer performs chunked transactional inserts into named tables.
type Writer struct {
	db  Beginner
	log *zerolog.Logger
}

// NewWriter constructs a Writer on top of a pool handle.
func NewWriter(db Beginner, log *zerolog.Logger) *Writer {
	return &Writer{db: db, log: log}
}

// Insert writes rows into table in chunks of at most chunkSize, all
// inside a single transaction.
//
// Empty rows is a legal no-op that succeeds. chunkSize must be
// positive; zero or negative is a caller contract violation and is
// rejected before any I/O. On any chunk failure the transaction is
// rolled back and a *TransactionError propagates to the caller.
func (w *Writer) Insert(ctx context.Context, table string, rows []Row, chunkSize int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("batch: chunkSize must be positive, got %d", chunkSize)
	}
	if len(rows) == 0 {
		return nil
	}

	// Column order is fixed for the whole call from the first row, so
	// every chunk binds values identically.
	columns := columnsOf(rows[0])

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("batch: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op error we discard.
	defer func() { _ = tx.Rollback(ctx) }()

	chunks := chunkRows(rows, chunkSize)
	for i, chunk := range chunks {
		stmt := insertSQL(table, columns, len(chunk))
		args := bindArgs(chunk, columns)

		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return &TransactionError{Table: table, Chunk: i, Err: sqlerr.Convert(err)}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &TransactionError{Table: table, Chunk: CommitFailed, Err: sqlerr.Convert(err)}
	}

	w.log.Debug().
		Str("table", table).
		Int("rows", len(rows)).
		Int("chunks", len(chunks)).
		Msg("batch insert committed")

	return nil
}

// columnsOf returns the row's column names in sorted order, for a
// deterministic statement shape.
func columnsOf(row Row) []string {
	columns := make([]string, 0, len(row))
	for name := range row {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

// chunkRows splits rows into pieces of at most size rows each. The
// chunks share backing storage with rows.
func chunkRows(rows []Row, size int) [][]Row {
	chunks := make([][]Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// insertSQL renders a multi-row INSERT with positional placeholders:
//
//	INSERT INTO "t" ("a", "b") VALUES ($1, $2), ($3, $4)
func insertSQL(table string, columns []string, rowCount int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = schema.QuoteIdent(c)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(schema.QuoteIdent(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")

	placeholder := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", placeholder)
			placeholder++
		}
		sb.WriteByte(')')
	}

	return sb.String()
}

// bindArgs flattens a chunk into the positional argument list matching
// insertSQL's placeholder order.
func bindArgs(chunk []Row, columns []string) []any {
	args := make([]any, 0, len(chunk)*len(columns))
	for _, row := range chunk {
		for _, c := range columns {
			args = append(args, row[c])
		}
	}
	return args
}
