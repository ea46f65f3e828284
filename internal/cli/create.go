package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		temporary   bool
		force       bool
		columnSpecs []string
		columnsPath string
		timestamps  bool
		noID        bool
	)
	cmd := &cobra.Command{
		Use:   "create <basename>",
		Short: "Create the main or temporary table of a family",
		Long: "Create a table with an implicit id primary key and the given columns.\n" +
			"Columns come from --column name:type[:null|notnull] flags, a YAML --columns-file, or both.\n" +
			"Types: string, text, integer, bigint, float, decimal, boolean, date, datetime, binary, json.",
		Example: "  tableswap create instant_models --temporary --column title:string:notnull --timestamps",
		Args:    basenameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := tableSpec{timestamps: timestamps, noPrimaryKey: noID}
			if columnsPath != "" {
				f, err := readColumnsFile(columnsPath)
				if err != nil {
					return err
				}
				spec.columns = append(spec.columns, f.Columns...)
				spec.timestamps = spec.timestamps || f.Timestamps
				spec.noPrimaryKey = spec.noPrimaryKey || f.NoPrimaryKey
			}
			for _, s := range columnSpecs {
				c, err := parseColumnSpec(s)
				if err != nil {
					return err
				}
				spec.columns = append(spec.columns, c)
			}

			ctx := cmd.Context()
			m, conn, err := a.openManager(ctx, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			name := m.TableName(temporary)
			if !force {
				exists, err := m.TableExists(ctx, temporary)
				if err != nil {
					return err
				}
				if exists {
					return userError(fmt.Errorf("table %s already exists (use --force to replace it)", name))
				}
			}

			h, err := m.CreateTable(ctx, temporary, force, spec.define())
			if err != nil {
				return err
			}
			cols, err := h.ColumnNames(ctx)
			if err != nil {
				return err
			}

			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"table":   name,
					"columns": cols,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%d columns)\n", name, len(cols))
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&temporary, "temporary", false, "create the temporary_ table instead of the main table")
	f.BoolVar(&force, "force", false, "drop an existing table of the same name first")
	f.StringArrayVar(&columnSpecs, "column", nil, "column as name:type[:null|notnull] (repeatable)")
	f.StringVar(&columnsPath, "columns-file", "", "YAML file with timestamps, no_primary_key and columns")
	f.BoolVar(&timestamps, "timestamps", false, "add NOT NULL created_at and updated_at columns")
	f.BoolVar(&noID, "no-id", false, "omit the implicit id primary key")
	return cmd
}
