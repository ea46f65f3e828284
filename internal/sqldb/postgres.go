package sqldb

import (
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// postgresDialect targets PostgreSQL through the pgx database/sql driver.
// Tables are resolved in current_schema().
type postgresDialect struct{}

func (postgresDialect) name() string       { return types.BackendPostgres }
func (postgresDialect) driverName() string { return "pgx" }

// normalizeDSN rejects connection strings pgx cannot parse before a pool is
// opened around them.
func (postgresDialect) normalizeDSN(dsn string) (string, error) {
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("parse postgres dsn: %w", err)
	}
	return dsn, nil
}

func (postgresDialect) quote(ident string) string { return pgx.Identifier{ident}.Sanitize() }

func (postgresDialect) placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) existsQuery() string {
	return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
}

func (postgresDialect) columnsQuery() string {
	return `SELECT column_name, data_type, CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`
}

func (d postgresDialect) identityColumn(name string) string {
	return d.quote(name) + " bigserial PRIMARY KEY"
}

var postgresTypes = map[types.ColumnType]string{
	types.TypeString:   "character varying",
	types.TypeText:     "text",
	types.TypeInteger:  "integer",
	types.TypeBigint:   "bigint",
	types.TypeFloat:    "double precision",
	types.TypeDecimal:  "numeric",
	types.TypeBoolean:  "boolean",
	types.TypeDate:     "date",
	types.TypeDatetime: "timestamp(6)",
	types.TypeBinary:   "bytea",
	types.TypeJSON:     "jsonb",
}

func (postgresDialect) columnType(t types.ColumnType) string { return postgresTypes[t] }

func (postgresDialect) emptyInsert(quotedTable string) string {
	return "INSERT INTO " + quotedTable + " DEFAULT VALUES"
}

func (d postgresDialect) renameSQL(renames []types.Rename) []string {
	return alterRenameSQL(d, renames)
}
