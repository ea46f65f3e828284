package sqldb

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// dialect holds the SQL differences between backends. Queries returned by
// existsQuery and columnsQuery take the table name as their only argument;
// columnsQuery selects name, native type and a 0/1 nullable flag.
type dialect interface {
	name() string
	driverName() string
	normalizeDSN(dsn string) (string, error)
	quote(ident string) string
	placeholder(n int) string
	existsQuery() string
	columnsQuery() string
	identityColumn(name string) string
	columnType(t types.ColumnType) string
	emptyInsert(quotedTable string) string
	renameSQL(renames []types.Rename) []string
}

// dialectFor returns the dialect for a backend name.
func dialectFor(backend string) (dialect, error) {
	switch backend {
	case types.BackendSQLite:
		return sqliteDialect{}, nil
	case types.BackendPostgres:
		return postgresDialect{}, nil
	case types.BackendMySQL:
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// createTableSQL renders the CREATE TABLE statement for def.
func createTableSQL(d dialect, name string, def *types.TableDefinition) string {
	var cols []string
	if def.PrimaryKey != "" {
		cols = append(cols, d.identityColumn(def.PrimaryKey))
	}
	for _, c := range def.Columns {
		col := d.quote(c.Name) + " " + d.columnType(c.Type)
		if c.NotNull {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.quote(name), strings.Join(cols, ", "))
}

// alterRenameSQL issues one ALTER TABLE ... RENAME TO per rename. SQLite and
// PostgreSQL both accept this form and run it inside a transaction.
func alterRenameSQL(d dialect, renames []types.Rename) []string {
	stmts := make([]string, 0, len(renames))
	for _, r := range renames {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.quote(r.From), d.quote(r.To)))
	}
	return stmts
}
