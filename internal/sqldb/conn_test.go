package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

func openTestConn(t *testing.T) *Conn {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	c, err := Open(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DSN:     filepath.Join(t.TempDir(), "tableswap.db"),
	}, WithLogger(log))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpen_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = Open(ctx, types.Config{Backend: "oracle", DSN: "x"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(ctx, types.Config{Backend: types.BackendSQLite})
	assert.ErrorIs(t, err, types.ErrDSNEmpty)
}

func TestOpen_SQLiteSingleConnection(t *testing.T) {
	c := openTestConn(t)
	assert.Equal(t, types.BackendSQLite, c.Backend())
	assert.Equal(t, 1, c.DB().Stats().MaxOpenConnections)
}

func TestWrap(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "wrapped.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	c, err := Wrap(db, types.BackendSQLite)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Execute(context.Background(), "CREATE TABLE t (a integer)"))
	ok, err := c.DataSourceExists(context.Background(), "t")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Wrap(db, "oracle")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestConn_DataSourceExists(t *testing.T) {
	ctx := context.Background()
	c := openTestConn(t)

	ok, err := c.DataSourceExists(ctx, "instant_models")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.CreateTable(ctx, "instant_models", false, nil))
	require.NoError(t, c.Execute(ctx, `CREATE VIEW "instant_view" AS SELECT * FROM "instant_models"`))

	for _, name := range []string{"instant_models", "instant_view"} {
		ok, err = c.DataSourceExists(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok, "%s exists", name)
	}
}

func TestConn_CreateTableAndColumns(t *testing.T) {
	ctx := context.Background()
	c := openTestConn(t)

	def := types.NewTableDefinition().
		Varchar("column_1").
		Text("body", types.NotNull()).
		Timestamps(types.Nullable())
	require.NoError(t, c.CreateTable(ctx, "instant_models", false, def))

	cols, err := c.Columns(ctx, "instant_models")
	require.NoError(t, err)
	assert.Equal(t, []types.Column{
		{Name: "id", SQLType: "integer", Nullable: false},
		{Name: "column_1", SQLType: "varchar", Nullable: true},
		{Name: "body", SQLType: "text", Nullable: false},
		{Name: "created_at", SQLType: "datetime(6)", Nullable: true},
		{Name: "updated_at", SQLType: "datetime(6)", Nullable: true},
	}, cols)

	missing, err := c.Columns(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestConn_CreateTableForce(t *testing.T) {
	ctx := context.Background()
	c := openTestConn(t)

	require.NoError(t, c.CreateTable(ctx, "t", false, types.NewTableDefinition().Varchar("a")))
	assert.Error(t, c.CreateTable(ctx, "t", false, types.NewTableDefinition().Varchar("b")))

	require.NoError(t, c.CreateTable(ctx, "t", true, types.NewTableDefinition().Varchar("b")))
	cols, err := c.Columns(ctx, "t")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "b", cols[1].Name)
}

func TestConn_CreateTableInvalid(t *testing.T) {
	err := openTestConn(t).CreateTable(context.Background(), "t", false,
		types.NewTableDefinition().Varchar("a").Varchar("a"))
	assert.ErrorIs(t, err, types.ErrDuplicateColumn)
}

func TestConn_Transaction(t *testing.T) {
	ctx := context.Background()
	c := openTestConn(t)
	require.NoError(t, c.CreateTable(ctx, "a", false, nil))

	t.Run("commits", func(t *testing.T) {
		err := c.Transaction(ctx, func(tx types.Tx) error {
			if err := tx.Execute(ctx, `ALTER TABLE "a" RENAME TO "b"`); err != nil {
				return err
			}
			ok, err := tx.DataSourceExists(ctx, "b")
			if err != nil {
				return err
			}
			assert.True(t, ok, "rename is visible inside the transaction")
			return nil
		})
		require.NoError(t, err)
		ok, err := c.DataSourceExists(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rolls back and returns the error unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		err := c.Transaction(ctx, func(tx types.Tx) error {
			require.NoError(t, tx.Execute(ctx, `DROP TABLE "b"`))
			return boom
		})
		assert.Same(t, boom, err)
		ok, err := c.DataSourceExists(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok, "drop was rolled back")
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = c.Transaction(ctx, func(tx types.Tx) error {
				require.NoError(t, tx.Execute(ctx, `DROP TABLE "b"`))
				panic("boom")
			})
		})
		ok, err := c.DataSourceExists(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("statement errors are wrapped", func(t *testing.T) {
		err := c.Transaction(ctx, func(tx types.Tx) error {
			return tx.Execute(ctx, `ALTER TABLE "missing" RENAME TO "other"`)
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})
}

func TestConn_InsertCountSelect(t *testing.T) {
	ctx := context.Background()
	c := openTestConn(t)
	require.NoError(t, c.CreateTable(ctx, "people", false,
		types.NewTableDefinition().Varchar("name").Integer("age")))

	require.NoError(t, c.Insert(ctx, "people", types.Row{"name": "ada", "age": 36}))
	require.NoError(t, c.Insert(ctx, "people", types.Row{"name": "alan", "age": 41}))
	require.NoError(t, c.Insert(ctx, "people", nil))

	n, err := c.Count(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rows, err := c.Select(ctx, "people", types.Row{"name": "alan"}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alan", rows[0]["name"])
	assert.EqualValues(t, 41, rows[0]["age"])
	assert.EqualValues(t, 2, rows[0]["id"])

	rows, err = c.Select(ctx, "people", nil, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.ErrorIs(t, c.Insert(ctx, "people", types.Row{"": 1}), types.ErrInvalidData)

	_, err = c.Count(ctx, "missing")
	assert.Error(t, err)
}

func TestConn_RenameTablesSQL(t *testing.T) {
	c := openTestConn(t)
	stmts := c.RenameTablesSQL([]types.Rename{{From: "a", To: "b"}})
	assert.Equal(t, []string{`ALTER TABLE "a" RENAME TO "b"`}, stmts)
}
