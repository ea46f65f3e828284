package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/mesh-intelligence/tableswap/pkg/sqldb"
	"github.com/mesh-intelligence/tableswap/pkg/swap"
	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// openConn connects to the configured database. The caller must Close it.
func (a *app) openConn(ctx context.Context) (types.Conn, error) {
	cfg, err := a.connConfig()
	if err != nil {
		return nil, err
	}
	conn, err := sqldb.Open(ctx, cfg, sqldb.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Backend, err)
	}
	return conn, nil
}

// openManager connects and returns a manager for basename's table family.
// The caller must Close the returned connection.
func (a *app) openManager(ctx context.Context, basename string) (*swap.Manager, types.Conn, error) {
	conn, err := a.openConn(ctx)
	if err != nil {
		return nil, nil, err
	}
	m, err := swap.New(conn, basename,
		swap.WithRegistry(a.registry),
		swap.WithLogger(a.log),
	)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return m, conn, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printTable renders rows under header as a plain text table.
func printTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
