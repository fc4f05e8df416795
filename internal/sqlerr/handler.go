package sqlerr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped Code for a given error.
//
// If err wraps a *sqlerr.Error (or a raw *pgconn.PgError), its
// category is returned; anything else maps to Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// Convert normalizes err into a *sqlerr.Error when it carries a
// Postgres error anywhere in its chain. Errors with no Postgres
// component are returned unchanged.
func Convert(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}
	return err
}

// FriendlyMessage produces a log-friendly sentence for a normalized
// database error, using table/column info where available.
func FriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return "The referenced " + entityName + " does not exist"
	case UniqueViolation:
		return "A " + entityName + " with this identifier already exists"
	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return "The " + fieldName + " is required"
	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return "The " + fieldName + " value does not meet required conditions"
		}
		return "One or more values do not meet required conditions"
	case UndefinedTable:
		return "The " + entityName + " table does not exist"
	case InsufficientPrivilege:
		return "The database role lacks privileges for this statement"
	default:
		return "An error occurred while executing the statement"
	}
}

// getEntityName infers an entity name from table/column data.
//
// A column like "case_id" names the entity best for FK violations;
// otherwise the (crudely singularized) table name is used.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case identifiers into Title Case,
// e.g. "case_id" -> "Case Id".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
