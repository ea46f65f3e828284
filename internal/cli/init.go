package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tableswap/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	var user bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize tableswap configuration and storage",
		Long: "Create the configuration directory and config.yaml, then connect to the\n" +
			"configured database once. With sqlite this creates the database file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user {
				if err := a.useUserDataDir(); err != nil {
					return err
				}
			}

			conn, err := a.openConn(cmd.Context())
			if err != nil {
				return err
			}
			if err := conn.Close(); err != nil {
				return fmt.Errorf("close database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tableswap initialized (backend %s)\n", a.cfg.GetString(cfgKeyBackend))
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "store sqlite data in the platform data directory instead of $(CWD)")
	return cmd
}

// useUserDataDir records the platform data directory as data_dir in
// config.yaml unless one is already configured. Only the file's own keys
// are written back; environment overrides and defaults stay out of it.
func (a *app) useUserDataDir() error {
	if a.cfg.GetString(cfgKeyDataDir) != "" {
		return nil
	}
	dir, err := paths.DefaultDataDir()
	if err != nil {
		return fmt.Errorf("resolve user data dir: %w", err)
	}

	file := viper.New()
	file.SetConfigFile(a.cfg.ConfigFileUsed())
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	file.Set(cfgKeyDataDir, dir)
	if err := file.WriteConfig(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	a.cfg.Set(cfgKeyDataDir, dir)
	return nil
}
