// Package cli implements the tableswap command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tableswap/pkg/swap"
	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds the global flag values and the state PersistentPreRunE builds
// for the subcommands of one root command.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	cfg      *viper.Viper
	log      *logrus.Logger
	registry *swap.Registry
}

// NewRootCmd creates the top-level "tableswap" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{registry: swap.NewRegistry()}

	root := &cobra.Command{
		Use:   "tableswap",
		Short: "Replace database tables without downtime",
		Long: "tableswap builds a replacement for a live table under a temporary name,\n" +
			"then promotes it in one transaction, keeping the previous table as stale_<name>.",
		Version:           swap.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.dataDir, "data-dir", "", "sqlite data directory (default: $(CWD)/.tableswap-db)")
	pf.BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError(err)
	})

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newNamesCmd(a),
		newStatusCmd(a),
		newColumnsCmd(a),
		newCreateCmd(a),
		newPromoteCmd(a),
		newDropCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tableswap:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := a.resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.cfg = v

	level := v.GetString(cfgKeyLogLevel)
	if a.logLevel != "" {
		level = a.logLevel
	}
	log, err := newLogger(cmd.ErrOrStderr(), level, v.GetString(cfgKeyLogFormat))
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// cliError carries the exit code an error should end the process with.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

// userError marks err as caused by the invocation rather than the system.
func userError(err error) error {
	return &cliError{code: exitUserError, err: err}
}

// userErrors are library errors that report a bad request.
var userErrors = []error{
	types.ErrTemporaryTableNotExist,
	types.ErrEmptyBasename,
	types.ErrInvalidColumnName,
	types.ErrInvalidColumnType,
	types.ErrDuplicateColumn,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrDSNEmpty,
	types.ErrMaxOpenConnsInvalid,
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// basenameArg requires exactly one basename argument.
func basenameArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return userError(err)
	}
	if args[0] == "" {
		return userError(types.ErrEmptyBasename)
	}
	return nil
}
