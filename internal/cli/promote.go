package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPromoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <basename>",
		Short: "Replace the main table with the temporary table",
		Long: "In one transaction: drop stale_<basename>, rename <basename> to stale_<basename>\n" +
			"if it exists, and rename temporary_<basename> to <basename>.",
		Args: basenameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, conn, err := a.openManager(ctx, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := m.Promote(ctx); err != nil {
				return err
			}
			state, err := m.State(ctx)
			if err != nil {
				return err
			}

			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), state)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "promoted %s to %s\n", m.TableName(true), m.TableName(false))
			if state.Stale {
				fmt.Fprintf(out, "previous table kept as %s\n", m.StaleTableName())
			}
			return nil
		},
	}
}
