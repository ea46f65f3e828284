package sqldb

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"vitess.io/vitess/go/sqlescape"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// mysqlDialect targets MySQL through go-sql-driver/mysql. Tables are resolved
// in DATABASE().
//
// MySQL commits implicitly around every DDL statement, so a transaction does
// not make a DROP followed by RENAMEs atomic. renameSQL therefore folds a
// rename group into a single RENAME TABLE statement, which MySQL applies
// atomically.
type mysqlDialect struct{}

func (mysqlDialect) name() string       { return types.BackendMySQL }
func (mysqlDialect) driverName() string { return "mysql" }

// normalizeDSN turns on parseTime so datetime columns scan into time.Time.
func (mysqlDialect) normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (mysqlDialect) quote(ident string) string { return sqlescape.EscapeID(ident) }

func (mysqlDialect) placeholder(int) string { return "?" }

func (mysqlDialect) existsQuery() string {
	return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
}

func (mysqlDialect) columnsQuery() string {
	return `SELECT column_name, column_type, CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END
FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY ordinal_position`
}

func (d mysqlDialect) identityColumn(name string) string {
	return d.quote(name) + " bigint NOT NULL AUTO_INCREMENT PRIMARY KEY"
}

var mysqlTypes = map[types.ColumnType]string{
	types.TypeString:   "varchar(255)",
	types.TypeText:     "text",
	types.TypeInteger:  "int",
	types.TypeBigint:   "bigint",
	types.TypeFloat:    "float",
	types.TypeDecimal:  "decimal(10,0)",
	types.TypeBoolean:  "tinyint(1)",
	types.TypeDate:     "date",
	types.TypeDatetime: "datetime(6)",
	types.TypeBinary:   "blob",
	types.TypeJSON:     "json",
}

func (mysqlDialect) columnType(t types.ColumnType) string { return mysqlTypes[t] }

func (mysqlDialect) emptyInsert(quotedTable string) string {
	return "INSERT INTO " + quotedTable + " () VALUES ()"
}

func (d mysqlDialect) renameSQL(renames []types.Rename) []string {
	if len(renames) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(renames))
	for _, r := range renames {
		pairs = append(pairs, d.quote(r.From)+" TO "+d.quote(r.To))
	}
	return []string{"RENAME TABLE " + strings.Join(pairs, ", ")}
}
