// Package sqldb provides the public constructors for tableswap database
// connections while keeping the dialect implementations internal.
package sqldb

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tableswap/internal/sqldb"
	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// Option configures a connection.
type Option = sqldb.Option

// WithLogger sets the logger executed statements are traced to at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return sqldb.WithLogger(log)
}

// Open connects to the database described by cfg.
//
// Example:
//
//	conn, err := sqldb.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DSN:     "tableswap.db",
//	})
//	defer conn.Close()
func Open(ctx context.Context, cfg types.Config, opts ...Option) (types.Conn, error) {
	c, err := sqldb.Open(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Wrap returns a connection over an existing pool for the named backend.
func Wrap(db *sql.DB, backend string, opts ...Option) (types.Conn, error) {
	c, err := sqldb.Wrap(db, backend, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}
