package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// TestMapCode verifies SQLSTATE mapping into application codes.
func TestMapCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sqlstate string
		want     Code
	}{
		{sqlstate: "23505", want: UniqueViolation},
		{sqlstate: "23503", want: ForeignKeyViolation},
		{sqlstate: "23502", want: NotNullViolation},
		{sqlstate: "23514", want: CheckViolation},
		{sqlstate: "42P01", want: UndefinedTable},
		{sqlstate: "42P07", want: DuplicateTable},
		{sqlstate: "42501", want: InsufficientPrivilege},
		{sqlstate: "08006", want: ConnectionFailure},
		{sqlstate: "08003", want: ConnectionFailure},
		{sqlstate: "22001", want: Other},
		{sqlstate: "", want: Other},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.sqlstate, func(t *testing.T) {
			t.Parallel()

			if got := MapCode(tt.sqlstate); got != tt.want {
				t.Fatalf("MapCode(%q) = %v, want %v", tt.sqlstate, got, tt.want)
			}
		})
	}
}

// TestErrCode verifies classification through wrapped error chains.
func TestErrCode(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23503", TableName: "notifications"}

	if got := ErrCode(ConvertPgError(pgErr)); got != ForeignKeyViolation {
		t.Fatalf("ErrCode(converted) = %v, want ForeignKeyViolation", got)
	}
	if got := ErrCode(fmt.Errorf("creating table: %w", ConvertPgError(pgErr))); got != ForeignKeyViolation {
		t.Fatalf("ErrCode(wrapped converted) = %v, want ForeignKeyViolation", got)
	}
	if got := ErrCode(fmt.Errorf("exec: %w", pgErr)); got != ForeignKeyViolation {
		t.Fatalf("ErrCode(wrapped raw) = %v, want ForeignKeyViolation", got)
	}
	if got := ErrCode(errors.New("plain")); got != Other {
		t.Fatalf("ErrCode(plain) = %v, want Other", got)
	}
	if got := ErrCode(nil); got != Other {
		t.Fatalf("ErrCode(nil) = %v, want Other", got)
	}
}

// TestConvert verifies normalization keeps the driver error reachable.
func TestConvert(t *testing.T) {
	t.Parallel()

	if Convert(nil) != nil {
		t.Fatal("Convert(nil) != nil")
	}

	plain := errors.New("not a database error")
	if Convert(plain) != plain {
		t.Fatal("Convert changed a non-database error")
	}

	pgErr := &pgconn.PgError{Code: "42501", Message: "permission denied for schema public"}
	converted := Convert(fmt.Errorf("exec: %w", pgErr))

	var sqlErr *Error
	if !errors.As(converted, &sqlErr) {
		t.Fatalf("Convert result %T does not unwrap to *Error", converted)
	}
	if sqlErr.Code != InsufficientPrivilege {
		t.Fatalf("converted Code = %v, want InsufficientPrivilege", sqlErr.Code)
	}

	var raw *pgconn.PgError
	if !errors.As(converted, &raw) {
		t.Fatal("original *pgconn.PgError no longer reachable via errors.As")
	}
}

// TestFriendlyMessage verifies the log-facing sentences.
func TestFriendlyMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "foreign key via column",
			err:  &Error{Code: ForeignKeyViolation, TableName: "notifications", ColumnName: "case_id"},
			want: "The referenced Case does not exist",
		},
		{
			name: "unique via table",
			err:  &Error{Code: UniqueViolation, TableName: "requests"},
			want: "A Request with this identifier already exists",
		},
		{
			name: "not null",
			err:  &Error{Code: NotNullViolation, ColumnName: "phone"},
			want: "The Phone is required",
		},
		{
			name: "check violation",
			err:  &Error{Code: CheckViolation, ColumnName: "type"},
			want: "The Type value does not meet required conditions",
		},
		{
			name: "undefined table",
			err:  &Error{Code: UndefinedTable, TableName: "hearings"},
			want: "The Hearing table does not exist",
		},
		{
			name: "fallback",
			err:  &Error{Code: Other},
			want: "An error occurred while executing the statement",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FriendlyMessage(tt.err); got != tt.want {
				t.Fatalf("FriendlyMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
