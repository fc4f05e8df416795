// Package schema owns the relational schema of the notification
// application.
//
// It contains the static table definitions (the schema registry), a
// renderer that turns a definition into CREATE TABLE / CREATE INDEX
// statements, and the provisioner that reconciles the live database
// against the registry at startup.
package schema

import "errors"

// Table is the closed set of table names this application provisions.
// Using a dedicated type keeps "unregistered table" a condition the
// compiler can help with: callers pass Table constants, not free-form
// strings.
type Table string

const (
	TableRequests      Table = "requests"
	TableHearings      Table = "hearings"
	TableNotifications Table = "notifications"
	TableLogRunners    Table = "log_runners"
	TableLogHits       Table = "log_hits"
)

// ErrUnregisteredTable is returned when a table name has no definition
// in the registry.
var ErrUnregisteredTable = errors.New("schema: table is not registered")

// ReferentialAction is the ON DELETE behavior of a foreign key.
type ReferentialAction string

const (
	NoAction ReferentialAction = ""
	Cascade  ReferentialAction = "CASCADE"
	Restrict ReferentialAction = "RESTRICT"
)

// ColumnSpec describes a single column.
//
// Type is the raw Postgres type (text, timestamptz, boolean, integer,
// serial). Default is a raw SQL expression emitted verbatim. A
// non-empty Enum renders a CHECK constraint restricting the column to
// the listed values.
type ColumnSpec struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	Enum     []string
}

// FKSpec describes a foreign key from this table into another one.
type FKSpec struct {
	Columns    []string
	RefTable   Table
	RefColumns []string
	OnDelete   ReferentialAction
}

// IndexSpec describes a secondary index.
type IndexSpec struct {
	Name    string
	Columns []string
}

// TableDefinition is the full shape of one table: columns, keys,
// constraints, and secondary indexes. Definitions are built once at
// package init and never mutated.
type TableDefinition struct {
	Name        Table
	Columns     []ColumnSpec
	PrimaryKey  []string
	ForeignKeys []FKSpec
	Indexes     []IndexSpec
}

// ProvisioningOrder lists every registered table such that a table
// always appears after the tables it references: requests must be
// committed before notifications, whose foreign key points at it.
// Tables with no relationships keep the historical order.
var ProvisioningOrder = []Table{
	TableRequests,
	TableHearings,
	TableNotifications,
	TableLogRunners,
	TableLogHits,
}

// definitions is the schema registry. Keyed by table name; exactly the
// five tables of the application.
var definitions = map[Table]TableDefinition{
	TableRequests: {
		Name: TableRequests,
		Columns: []ColumnSpec{
			{Name: "case_id", Type: "text"},
			{Name: "phone", Type: "text"},
			{Name: "known_case", Type: "boolean", Default: "false"},
			{Name: "active", Type: "boolean", Default: "true"},
			{Name: "created_at", Type: "timestamptz", Default: "now()"},
			{Name: "updated_at", Type: "timestamptz", Default: "now()"},
		},
		PrimaryKey: []string{"case_id", "phone"},
	},

	TableHearings: {
		Name: TableHearings,
		Columns: []ColumnSpec{
			{Name: "case_id", Type: "text"},
			{Name: "date", Type: "timestamptz"},
			{Name: "room", Type: "text", Nullable: true},
		},
		PrimaryKey: []string{"case_id", "date"},
		Indexes: []IndexSpec{
			{Name: "hearings_case_id_index", Columns: []string{"case_id"}},
		},
	},

	TableNotifications: {
		Name: TableNotifications,
		Columns: []ColumnSpec{
			{Name: "case_id", Type: "text"},
			{Name: "phone", Type: "text"},
			{Name: "event_date", Type: "timestamptz", Nullable: true},
			{Name: "type", Type: "text", Enum: []string{"reminder", "matched", "expired"}},
			{Name: "error", Type: "text", Nullable: true},
			{Name: "created_at", Type: "timestamptz", Default: "now()"},
		},
		ForeignKeys: []FKSpec{
			{
				Columns:    []string{"case_id", "phone"},
				RefTable:   TableRequests,
				RefColumns: []string{"case_id", "phone"},
				OnDelete:   Cascade,
			},
		},
	},

	TableLogRunners: {
		Name: TableLogRunners,
		Columns: []ColumnSpec{
			{Name: "id", Type: "serial"},
			{Name: "runner", Type: "text", Enum: []string{"send_reminder", "send_expired", "send_matched", "load"}},
			{Name: "count", Type: "integer", Default: "0"},
			{Name: "error_count", Type: "integer", Default: "0"},
			{Name: "date", Type: "timestamptz", Default: "now()"},
		},
		PrimaryKey: []string{"id"},
	},

	TableLogHits: {
		Name: TableLogHits,
		Columns: []ColumnSpec{
			{Name: "time", Type: "text", Nullable: true},
			{Name: "path", Type: "text", Nullable: true},
			{Name: "method", Type: "text", Nullable: true},
			{Name: "status_code", Type: "text", Nullable: true},
			{Name: "phone", Type: "text", Nullable: true},
			{Name: "body", Type: "text", Nullable: true},
			{Name: "action", Type: "text", Nullable: true},
		},
	},
}

// Definition looks up the TableDefinition for name. Pure lookup, no
// I/O; unknown names report ErrUnregisteredTable.
func Definition(name Table) (TableDefinition, error) {
	def, ok := definitions[name]
	if !ok {
		return TableDefinition{}, ErrUnregisteredTable
	}
	return def, nil
}
