// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the PostgreSQL driver and converts
// them into typed categories the rest of the application can switch
// on, plus human-readable messages for logs.
package sqlerr

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is the application-level category of a database error.
type Code int

const (
	// Other covers every SQLSTATE not mapped below.
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	UndefinedTable
	DuplicateTable
	InsufficientPrivilege
	ConnectionFailure
)

// String returns the category name, for logging.
func (c Code) String() string {
	switch c {
	case UniqueViolation:
		return "unique_violation"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	case UndefinedTable:
		return "undefined_table"
	case DuplicateTable:
		return "duplicate_table"
	case InsufficientPrivilege:
		return "insufficient_privilege"
	case ConnectionFailure:
		return "connection_failure"
	default:
		return "other"
	}
}

// Error is a normalized database error. It keeps the original
// SQLSTATE and the driver error for debugging while exposing the
// mapped Code for control flow.
type Error struct {
	Code           Code
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (SQLSTATE %s): %s", e.Code, e.DatabaseCode, e.Message)
}

// Unwrap returns the original driver error so errors.As can still
// reach *pgconn.PgError.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// ConvertPgError converts a raw pgconn.PgError into a sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// MapCode maps a SQLSTATE to the application Code enum.
//
// SQLSTATE class 08 is connection trouble; the 23xxx family is
// integrity constraints; 42xxx is syntax/access.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "42P01":
		return UndefinedTable
	case "42P07":
		return DuplicateTable
	case "42501":
		return InsufficientPrivilege
	}
	if len(sqlstate) >= 2 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}
