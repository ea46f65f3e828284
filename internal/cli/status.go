package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// slotStatus is one row of the status command.
type slotStatus struct {
	Slot   types.Slot `json:"slot"`
	Table  string     `json:"table"`
	Exists bool       `json:"exists"`
	Rows   *int64     `json:"rows,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <basename>",
		Short: "Show which tables of a family exist",
		Args:  basenameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, conn, err := a.openManager(ctx, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			state, err := m.State(ctx)
			if err != nil {
				return err
			}

			var statuses []slotStatus
			for _, slot := range []types.Slot{types.SlotMain, types.SlotTemporary, types.SlotStale} {
				s := slotStatus{Slot: slot, Table: m.SlotTableName(slot), Exists: state.Exists(slot)}
				if s.Exists {
					n, err := conn.Count(ctx, s.Table)
					if err != nil {
						return err
					}
					s.Rows = &n
				}
				statuses = append(statuses, s)
			}

			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), statuses)
			}
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				count := "-"
				if s.Rows != nil {
					count = strconv.FormatInt(*s.Rows, 10)
				}
				rows = append(rows, []string{string(s.Slot), s.Table, yesNo(s.Exists), count})
			}
			printTable(cmd.OutOrStdout(), []string{"SLOT", "TABLE", "EXISTS", "ROWS"}, rows)
			return nil
		},
	}
}
