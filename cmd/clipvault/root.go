package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipvault/internal/config"
	"clipvault/internal/format"
	"clipvault/internal/store"
	"clipvault/internal/transfer"
)

// cliEnv bundles what every command needs: config, the context factory and
// the transfer service built on it.
type cliEnv struct {
	cfg      *config.Config
	factory  *store.Factory
	service  *transfer.Service
	jsonOut  bool
	database string
}

// dbKey returns the database the command operates on: the --db flag if set,
// otherwise the configured default path.
func (e *cliEnv) dbKey() string {
	if e.database != "" {
		return e.database
	}
	return e.cfg.DBPath
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	env := &cliEnv{cfg: cfg}
	var logLevel string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "clipvault",
		Short: "Clipvault stores clipboard captures across embedded database files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel); err != nil {
				return err
			} else if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}

			if pretty {
				outputFormatter = format.IndentedJSONFormatter{}
			}

			env.factory = store.NewFactory(cfg.Databases)
			env.factory.RegisterDatabase(cfg.DBPath)
			for _, alias := range cfg.Aliases() {
				path, err := env.factory.ResolvePath(alias)
				if err != nil {
					return err
				}
				env.factory.RegisterDatabase(path)
			}
			env.service = transfer.NewService(env.factory)
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&env.jsonOut, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.PersistentFlags().StringVar(&env.database, "db", "", "database alias or path (default: configured db_path)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newCaptureCmd(env),
		newListCmd(env),
		newShowCmd(env),
		newSearchCmd(env),
		newCopyCmd(env),
		newMoveCmd(env),
		newRmCmd(env),
		newFavCmd(env),
		newPurgeCmd(env),
		newCollectionsCmd(env),
		newShortcutCmd(env),
		newDbsCmd(env),
		newExportCmd(env),
		newImportCmd(env),
	)

	return cmd
}
