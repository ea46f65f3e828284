package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// familyNames is the JSON shape of the names command.
type familyNames struct {
	Main      string `json:"main"`
	Temporary string `json:"temporary"`
	Stale     string `json:"stale"`
}

func newNamesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "names <basename>",
		Short: "Print the table names derived from a basename",
		Args:  basenameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := namesOf(args[0])
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), names)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %s\n", types.SlotMain, names.Main)
			fmt.Fprintf(out, "%-10s %s\n", types.SlotTemporary, names.Temporary)
			fmt.Fprintf(out, "%-10s %s\n", types.SlotStale, names.Stale)
			return nil
		},
	}
}

// namesOf derives the family table names without touching the database.
func namesOf(basename string) familyNames {
	return familyNames{
		Main:      basename,
		Temporary: types.TemporaryPrefix + basename,
		Stale:     types.StalePrefix + basename,
	}
}
