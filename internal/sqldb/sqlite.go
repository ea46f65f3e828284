package sqldb

import (
	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// sqliteDialect targets modernc.org/sqlite.
type sqliteDialect struct{}

func (sqliteDialect) name() string       { return types.BackendSQLite }
func (sqliteDialect) driverName() string { return "sqlite" }

func (sqliteDialect) normalizeDSN(dsn string) (string, error) { return dsn, nil }

// quote uses ANSI double-quoted identifiers, which SQLite shares with
// PostgreSQL.
func (sqliteDialect) quote(ident string) string { return pgx.Identifier{ident}.Sanitize() }

func (sqliteDialect) placeholder(int) string { return "?" }

func (sqliteDialect) existsQuery() string {
	return `SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`
}

func (sqliteDialect) columnsQuery() string {
	return `SELECT name, type, CASE WHEN "notnull" = 0 THEN 1 ELSE 0 END FROM pragma_table_info(?) ORDER BY cid`
}

func (d sqliteDialect) identityColumn(name string) string {
	return d.quote(name) + " integer PRIMARY KEY AUTOINCREMENT NOT NULL"
}

var sqliteTypes = map[types.ColumnType]string{
	types.TypeString:   "varchar",
	types.TypeText:     "text",
	types.TypeInteger:  "integer",
	types.TypeBigint:   "bigint",
	types.TypeFloat:    "float",
	types.TypeDecimal:  "decimal",
	types.TypeBoolean:  "boolean",
	types.TypeDate:     "date",
	types.TypeDatetime: "datetime(6)",
	types.TypeBinary:   "blob",
	types.TypeJSON:     "json",
}

func (sqliteDialect) columnType(t types.ColumnType) string { return sqliteTypes[t] }

func (sqliteDialect) emptyInsert(quotedTable string) string {
	return "INSERT INTO " + quotedTable + " DEFAULT VALUES"
}

func (d sqliteDialect) renameSQL(renames []types.Rename) []string {
	return alterRenameSQL(d, renames)
}
