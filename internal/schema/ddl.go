package schema

import (
	"fmt"
	"strings"
)

// QuoteIdent quotes a single Postgres identifier, escaping embedded
// double quotes by doubling them.
func QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteIdents(idents []string) []string {
	out := make([]string, len(idents))
	for i, ident := range idents {
		out[i] = QuoteIdent(ident)
	}
	return out
}

// quoteLiteral renders a SQL string literal, escaping embedded single
// quotes by doubling them.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// BuildCreateTable renders the CREATE TABLE statement for a
// definition.
//
// Each column is rendered as:
//
//	<name> <type> [NOT NULL] [DEFAULT <expr>] [CHECK (<name> IN (...))]
//
// followed by trailing PRIMARY KEY and FOREIGN KEY clauses. Defaults
// are emitted as raw SQL expressions.
func BuildCreateTable(def TableDefinition) (string, error) {
	if def.Name == "" {
		return "", fmt.Errorf("schema: table name must not be empty")
	}
	if len(def.Columns) == 0 {
		return "", fmt.Errorf("schema: table %s has no columns", def.Name)
	}

	clauses := make([]string, 0, len(def.Columns)+1+len(def.ForeignKeys))

	for _, c := range def.Columns {
		if c.Name == "" {
			return "", fmt.Errorf("schema: column with empty name in table %s", def.Name)
		}
		if c.Type == "" {
			return "", fmt.Errorf("schema: column %s in table %s missing type", c.Name, def.Name)
		}

		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(c.Type)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}

		if c.Default != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(c.Default)
		}

		if len(c.Enum) > 0 {
			values := make([]string, len(c.Enum))
			for i, v := range c.Enum {
				values[i] = quoteLiteral(v)
			}
			sb.WriteString(" CHECK (")
			sb.WriteString(QuoteIdent(c.Name))
			sb.WriteString(" IN (")
			sb.WriteString(strings.Join(values, ", "))
			sb.WriteString("))")
		}

		clauses = append(clauses, sb.String())
	}

	if len(def.PrimaryKey) > 0 {
		clauses = append(clauses, fmt.Sprintf(
			"PRIMARY KEY (%s)",
			strings.Join(quoteIdents(def.PrimaryKey), ", "),
		))
	}

	for _, fk := range def.ForeignKeys {
		var sb strings.Builder
		sb.WriteString("FOREIGN KEY (")
		sb.WriteString(strings.Join(quoteIdents(fk.Columns), ", "))
		sb.WriteString(") REFERENCES ")
		sb.WriteString(QuoteIdent(string(fk.RefTable)))
		sb.WriteString(" (")
		sb.WriteString(strings.Join(quoteIdents(fk.RefColumns), ", "))
		sb.WriteString(")")
		if fk.OnDelete != NoAction {
			sb.WriteString(" ON DELETE ")
			sb.WriteString(string(fk.OnDelete))
		}
		clauses = append(clauses, sb.String())
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n)",
		QuoteIdent(string(def.Name)),
		strings.Join(clauses, ",\n  "),
	)

	return stmt, nil
}

// BuildCreateIndexes renders one CREATE INDEX statement per secondary
// index of the definition.
func BuildCreateIndexes(def TableDefinition) []string {
	stmts := make([]string, 0, len(def.Indexes))
	for _, idx := range def.Indexes {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX %s ON %s (%s)",
			QuoteIdent(idx.Name),
			QuoteIdent(string(def.Name)),
			strings.Join(quoteIdents(idx.Columns), ", "),
		))
	}
	return stmts
}

// Statements renders the full DDL for a definition: the CREATE TABLE
// statement followed by its secondary indexes, in execution order.
func Statements(def TableDefinition) ([]string, error) {
	create, err := BuildCreateTable(def)
	if err != nil {
		return nil, err
	}
	return append([]string{create}, BuildCreateIndexes(def)...), nil
}
