package types

import (
	"context"
	"errors"
)

// Conn is the database connection a table family is managed through.
// Implementations exist per SQL dialect in package sqldb.
type Conn interface {
	// DataSourceExists reports whether a table or view with the given name
	// exists. The answer is read from the database on every call.
	DataSourceExists(ctx context.Context, name string) (bool, error)

	// CreateTable creates the named table from def. When force is true an
	// existing table of the same name is dropped first; otherwise the
	// database rejects the statement if the table exists.
	CreateTable(ctx context.Context, name string, force bool, def *TableDefinition) error

	// Execute runs a raw statement, typically DDL.
	Execute(ctx context.Context, sql string) error

	// Columns returns the columns of the named table in ordinal order.
	Columns(ctx context.Context, name string) ([]Column, error)

	// QuoteIdentifier quotes name for interpolation into raw SQL.
	QuoteIdentifier(name string) string

	// Transaction runs fn inside one transaction. It commits when fn returns
	// nil and rolls back otherwise, returning fn's error unchanged.
	Transaction(ctx context.Context, fn func(tx Tx) error) error

	// Insert adds one row to the named table.
	Insert(ctx context.Context, table string, row Row) error

	// Count returns the number of rows in the named table.
	Count(ctx context.Context, table string) (int64, error)

	// Select returns rows of the named table whose columns equal the values
	// in where. A positive limit caps the number of rows returned.
	Select(ctx context.Context, table string, where Row, limit int) ([]Row, error)

	// Close releases the underlying connection pool.
	Close() error
}

// Tx is the part of Conn available inside Transaction. Every call runs on
// the transaction's connection.
type Tx interface {
	DataSourceExists(ctx context.Context, name string) (bool, error)
	Execute(ctx context.Context, sql string) error
}

// Rename is one table rename inside a rename group.
type Rename struct {
	From string
	To   string
}

// RenameBatcher is implemented by connections that decide how a group of
// renames is issued. Dialects whose DDL commits implicitly return a single
// statement so the group stays atomic. Connections that do not implement it
// get one ALTER TABLE ... RENAME TO per rename.
type RenameBatcher interface {
	RenameTablesSQL(renames []Rename) []string
}

// Row is one table row keyed by column name.
type Row map[string]any

// Data access errors.
var (
	ErrInvalidData   = errors.New("invalid row data")
	ErrInvalidFilter = errors.New("invalid filter")
)
