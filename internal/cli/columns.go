package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

func newColumnsCmd(a *app) *cobra.Command {
	var temporary, stale bool
	cmd := &cobra.Command{
		Use:   "columns <basename>",
		Short: "List the columns of a table in the family",
		Args:  basenameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, conn, err := a.openManager(ctx, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			if temporary && stale {
				return userError(fmt.Errorf("--temporary and --stale are mutually exclusive"))
			}
			slot := types.SlotMain
			switch {
			case temporary:
				slot = types.SlotTemporary
			case stale:
				slot = types.SlotStale
			}
			name := m.SlotTableName(slot)

			exists, err := conn.DataSourceExists(ctx, name)
			if err != nil {
				return err
			}
			if !exists {
				return userError(fmt.Errorf("table %s does not exist", name))
			}

			var cols []types.Column
			if slot == types.SlotStale {
				cols, err = conn.Columns(ctx, name)
			} else {
				cols, err = m.Model(temporary).Columns(ctx)
			}
			if err != nil {
				return err
			}

			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), cols)
			}
			rows := make([][]string, 0, len(cols))
			for _, c := range cols {
				rows = append(rows, []string{c.Name, c.SQLType, yesNo(c.Nullable)})
			}
			printTable(cmd.OutOrStdout(), []string{"COLUMN", "TYPE", "NULL"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&temporary, "temporary", false, "show the temporary table")
	cmd.Flags().BoolVar(&stale, "stale", false, "show the stale table")
	return cmd
}
