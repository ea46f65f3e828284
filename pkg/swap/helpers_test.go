package swap

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tableswap/internal/sqldb"
	"github.com/mesh-intelligence/tableswap/pkg/types"
)

const testBasename = "instant_models"

// quietLogger discards log output so test runs stay readable.
func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestConn opens a SQLite database in a temporary directory.
func newTestConn(t *testing.T) *sqldb.Conn {
	t.Helper()
	return openSQLite(t, filepath.Join(t.TempDir(), "tableswap.db"))
}

// openSQLite opens the SQLite database at path and closes it at cleanup.
func openSQLite(t *testing.T, path string) *sqldb.Conn {
	t.Helper()
	conn, err := sqldb.Open(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DSN:     path,
	}, sqldb.WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestManager returns a manager on conn with its own handle registry.
func newTestManager(t *testing.T, conn types.Conn, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithRegistry(NewRegistry()), WithLogger(quietLogger())}, opts...)
	m, err := New(conn, testBasename, opts...)
	require.NoError(t, err)
	return m
}

// createRaw creates a table outside the manager, like the setup blocks of
// the lifecycle tests do.
func createRaw(t *testing.T, conn types.Conn, name string, columns ...string) {
	t.Helper()
	def := types.NewTableDefinition()
	for _, c := range columns {
		def.Varchar(c)
	}
	require.NoError(t, conn.CreateTable(context.Background(), name, true, def))
}

func exists(t *testing.T, conn types.Conn, name string) bool {
	t.Helper()
	ok, err := conn.DataSourceExists(context.Background(), name)
	require.NoError(t, err)
	return ok
}

func columnNames(t *testing.T, conn types.Conn, name string) []string {
	t.Helper()
	cols, err := conn.Columns(context.Background(), name)
	require.NoError(t, err)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

var errInjected = errors.New("injected failure")

// failingConn wraps a connection and fails the first transactional
// statement containing failOn. It hides RenameTablesSQL, so managers fall
// back to ALTER TABLE renames.
type failingConn struct {
	types.Conn
	failOn string
}

func (c *failingConn) Transaction(ctx context.Context, fn func(tx types.Tx) error) error {
	return c.Conn.Transaction(ctx, func(tx types.Tx) error {
		return fn(&failingTx{Tx: tx, failOn: c.failOn})
	})
}

type failingTx struct {
	types.Tx
	failOn string
}

func (t *failingTx) Execute(ctx context.Context, query string) error {
	if strings.Contains(query, t.failOn) {
		return errInjected
	}
	return t.Tx.Execute(ctx, query)
}
