// Package sqldb implements types.Conn over database/sql for SQLite,
// PostgreSQL and MySQL.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// Conn implements types.Conn and types.RenameBatcher on a *sql.DB.
type Conn struct {
	db      *sql.DB
	dialect dialect
	log     logrus.FieldLogger
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the logger statements are traced to at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Conn) {
		if log != nil {
			c.log = log
		}
	}
}

// Open validates cfg, opens a connection pool for its backend and pings it.
// SQLite pools default to a single connection so that writers serialize and
// transactions never wait on a second connection's lock.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := dialectFor(cfg.Backend)
	if err != nil {
		return nil, err
	}
	dsn, err := d.normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Backend, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 && cfg.Backend == types.BackendSQLite {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Backend, err)
	}

	return newConn(db, d, opts), nil
}

// Wrap returns a Conn over an already opened pool. The caller keeps
// ownership of the pool's settings; Close closes it.
func Wrap(db *sql.DB, backend string, opts ...Option) (*Conn, error) {
	d, err := dialectFor(backend)
	if err != nil {
		return nil, err
	}
	return newConn(db, d, opts), nil
}

func newConn(db *sql.DB, d dialect, opts []Option) *Conn {
	c := &Conn{
		db:      db,
		dialect: d,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("backend", d.name())
	return c
}

// Backend returns the backend name of the connection.
func (c *Conn) Backend() string {
	return c.dialect.name()
}

// DB returns the underlying pool.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Close closes the underlying pool.
func (c *Conn) Close() error {
	return c.db.Close()
}

// QuoteIdentifier quotes name with the dialect's identifier quoting.
func (c *Conn) QuoteIdentifier(name string) string {
	return c.dialect.quote(name)
}

// RenameTablesSQL returns the statements that apply renames as one group.
func (c *Conn) RenameTablesSQL(renames []types.Rename) []string {
	return c.dialect.renameSQL(renames)
}

// DataSourceExists reports whether a table or view named name exists.
func (c *Conn) DataSourceExists(ctx context.Context, name string) (bool, error) {
	return dataSourceExists(ctx, c.db, c.dialect, name)
}

// Execute runs a raw statement.
func (c *Conn) Execute(ctx context.Context, query string) error {
	return execute(ctx, c.db, c.log, query)
}

// Columns returns the columns of the named table in ordinal order. A table
// that does not exist has no columns.
func (c *Conn) Columns(ctx context.Context, name string) ([]types.Column, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.columnsQuery(), name)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", name, err)
	}
	defer rows.Close()

	var cols []types.Column
	for rows.Next() {
		var col types.Column
		var nullable int
		if err := rows.Scan(&col.Name, &col.SQLType, &nullable); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", name, err)
		}
		col.Nullable = nullable == 1
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// CreateTable creates the named table from def. With force, the drop of an
// existing table and the create run in one transaction.
func (c *Conn) CreateTable(ctx context.Context, name string, force bool, def *types.TableDefinition) error {
	if def == nil {
		def = types.NewTableDefinition()
	}
	if err := def.Validate(); err != nil {
		return err
	}
	stmt := createTableSQL(c.dialect, name, def)
	if !force {
		return c.Execute(ctx, stmt)
	}
	return c.Transaction(ctx, func(tx types.Tx) error {
		if err := tx.Execute(ctx, "DROP TABLE IF EXISTS "+c.QuoteIdentifier(name)); err != nil {
			return err
		}
		return tx.Execute(ctx, stmt)
	})
}

// Transaction runs fn in a database transaction. fn's error is returned
// unchanged after rollback; a panic in fn rolls back and is re-raised.
func (c *Conn) Transaction(ctx context.Context, fn func(tx types.Tx) error) (err error) {
	sqlTx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&tx{tx: sqlTx, dialect: c.dialect, log: c.log}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			c.log.WithError(rbErr).Warn("rollback failed")
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Insert adds row to the named table. Columns are written in name order.
func (c *Conn) Insert(ctx context.Context, table string, row types.Row) error {
	quoted := c.QuoteIdentifier(table)
	if len(row) == 0 {
		_, err := c.db.ExecContext(ctx, c.dialect.emptyInsert(quoted))
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		return nil
	}

	names := sortedKeys(row)
	cols := make([]string, len(names))
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		if name == "" {
			return types.ErrInvalidData
		}
		cols[i] = c.QuoteIdentifier(name)
		placeholders[i] = c.dialect.placeholder(i + 1)
		args[i] = row[name]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Count returns the number of rows in the named table.
func (c *Conn) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	query := "SELECT COUNT(*) FROM " + c.QuoteIdentifier(table)
	if err := c.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Select returns rows of the named table matching every column value in
// where. Byte slices are returned as strings.
func (c *Conn) Select(ctx context.Context, table string, where types.Row, limit int) ([]types.Row, error) {
	query := "SELECT * FROM " + c.QuoteIdentifier(table)
	var conditions []string
	var args []any
	for i, name := range sortedKeys(where) {
		conditions = append(conditions, c.QuoteIdentifier(name)+" = "+c.dialect.placeholder(i+1))
		args = append(args, where[name])
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	results := []types.Row{}
	for rows.Next() {
		values := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row of %s: %w", table, err)
		}
		row := make(types.Row, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// tx implements types.Tx on a *sql.Tx.
type tx struct {
	tx      *sql.Tx
	dialect dialect
	log     logrus.FieldLogger
}

func (t *tx) DataSourceExists(ctx context.Context, name string) (bool, error) {
	return dataSourceExists(ctx, t.tx, t.dialect, name)
}

func (t *tx) Execute(ctx context.Context, query string) error {
	return execute(ctx, t.tx, t.log.WithField("tx", true), query)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func dataSourceExists(ctx context.Context, q querier, d dialect, name string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, d.existsQuery(), name).Scan(&n); err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

func execute(ctx context.Context, q querier, log logrus.FieldLogger, query string) error {
	log.WithField("sql", query).Debug("execute")
	if _, err := q.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute %q: %w", query, err)
	}
	return nil
}

func sortedKeys(row types.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	_ types.Conn          = (*Conn)(nil)
	_ types.RenameBatcher = (*Conn)(nil)
)
