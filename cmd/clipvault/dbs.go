package main

import (
	"github.com/spf13/cobra"
)

func newDbsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbs",
		Short: "Manage the set of loaded database files",
	}

	cmd.AddCommand(
		newDbsListCmd(env),
		newDbsRegisterCmd(env),
		newDbsCloseCmd(env),
		newDbsTargetsCmd(env),
	)
	return cmd
}

func newDbsListCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded database paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := env.factory.LoadedDatabasePaths()
			if env.jsonOut {
				return writeJSON(paths)
			}
			for _, path := range paths {
				if err := writePlain("%s\n", path); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

func newDbsRegisterCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register PATH|ALIAS",
		Short: "Open a database file and add it to the loaded set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening verifies the file is usable and bootstraps its schema.
			dbc, err := env.factory.CreateContext(args[0])
			if err != nil {
				return err
			}
			path := dbc.Path()
			if err := dbc.Close(); err != nil {
				return err
			}
			return writePlain("registered %s\n", path)
		},
	}
	return cmd
}

func newDbsCloseCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close PATH|ALIAS",
		Short: "Remove a database from the loaded set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := env.factory.ResolvePath(args[0])
			if err != nil {
				return err
			}
			if !env.factory.CloseDatabase(path) {
				return writePlain("%s was not loaded\n", path)
			}
			return writePlain("closed %s\n", path)
		},
	}
	return cmd
}

func newDbsTargetsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List every loaded database with its collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := env.service.Targets(cmd.Context())
			if err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(targets)
			}
			for _, target := range targets {
				if err := writePlain("%s\n", target.Path); err != nil {
					return err
				}
				for _, col := range target.Collections {
					if err := writePlain("  %s  %s\n", col.ID, col.Title); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	return cmd
}
