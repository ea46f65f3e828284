package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <basename>",
		Short: "Drop the temporary, main and stale tables of a family",
		Args:  basenameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, conn, err := a.openManager(ctx, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := m.DropTables(ctx); err != nil {
				return err
			}

			dropped := make([]string, 0, len(types.Slots))
			for _, slot := range types.Slots {
				dropped = append(dropped, m.SlotTableName(slot))
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"dropped": dropped})
			}
			for _, name := range dropped {
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", name)
			}
			return nil
		},
	}
}
