//go:build integration

package sqldb_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mesh-intelligence/tableswap/internal/sqldb"
	"github.com/mesh-intelligence/tableswap/pkg/swap"
	"github.com/mesh-intelligence/tableswap/pkg/types"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "tableswap",
				"POSTGRES_PASSWORD": "tableswap",
				"POSTGRES_DB":       "tableswap_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://tableswap:tableswap@%s:%s/tableswap_test?sslmode=disable", host, port.Port())
}

func startMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("test"),
		tcmysql.WithDatabase("testdb"),
	)
	if err != nil {
		t.Fatalf("start mysql container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)
	return fmt.Sprintf("root:test@tcp(%s:%s)/testdb", host, port.Port())
}

// openWithRetry waits for the server to accept connections.
func openWithRetry(t *testing.T, cfg types.Config) *sqldb.Conn {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	var lastErr error
	for range 30 {
		c, err := sqldb.Open(context.Background(), cfg, sqldb.WithLogger(log))
		if err == nil {
			t.Cleanup(func() { c.Close() })
			return c
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	t.Fatalf("open %s: %v", cfg.Backend, lastErr)
	return nil
}

func TestIntegration_Postgres(t *testing.T) {
	c := openWithRetry(t, types.Config{Backend: types.BackendPostgres, DSN: startPostgres(t)})
	runSwapCycle(t, c)
}

func TestIntegration_MySQL(t *testing.T) {
	c := openWithRetry(t, types.Config{Backend: types.BackendMySQL, DSN: startMySQL(t)})
	runSwapCycle(t, c)
}

// runSwapCycle drives one table family through create, promote twice and
// teardown, checking the family state after every step.
func runSwapCycle(t *testing.T, c types.Conn) {
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)

	m, err := swap.New(c, "instant_models", swap.WithRegistry(swap.NewRegistry()), swap.WithLogger(log))
	require.NoError(t, err)

	state := func() types.FamilyState {
		s, err := m.State(ctx)
		require.NoError(t, err)
		return s
	}

	err = m.Promote(ctx)
	assert.ErrorIs(t, err, types.ErrTemporaryTableNotExist)
	assert.True(t, state().Empty())

	define := func(d *types.TableDefinition) {
		d.Varchar("name", types.NotNull()).Integer("rank").Timestamps()
	}

	h, err := m.CreateTable(ctx, true, false, define)
	require.NoError(t, err)
	require.NoError(t, h.Insert(ctx, types.Row{"name": "first", "rank": 1}))

	names, err := h.ColumnNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "rank", "created_at", "updated_at"}, names)

	require.NoError(t, m.Promote(ctx))
	assert.Equal(t, types.FamilyState{Main: true}, state())

	live := m.Model(false)
	n, err := live.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	h, err = m.CreateTable(ctx, true, false, define)
	require.NoError(t, err)
	require.NoError(t, h.Insert(ctx, types.Row{"name": "second", "rank": 2}))
	require.NoError(t, h.Insert(ctx, types.Row{"name": "third", "rank": 3}))

	require.NoError(t, m.Promote(ctx))
	assert.Equal(t, types.FamilyState{Main: true, Stale: true}, state())

	n, err = live.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := live.Fetch(ctx, map[string]any{"name": "third"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, rows[0]["rank"])

	stale, err := c.Count(ctx, m.StaleTableName())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale)

	require.NoError(t, m.DropTables(ctx))
	assert.True(t, state().Empty())
	require.NoError(t, m.DropTables(ctx))
}
