package main

import (
	"github.com/spf13/cobra"
)

func newShortcutCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Manage clip nicknames",
	}

	cmd.AddCommand(
		newShortcutSetCmd(env),
		newShortcutResolveCmd(env),
		newShortcutRmCmd(env),
		newShortcutListCmd(env),
	)
	return cmd
}

func newShortcutSetCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set NICKNAME CLIP_ID",
		Short: "Bind a nickname to a clip, replacing any previous binding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortcuts, err := env.factory.ShortcutRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer shortcuts.Close()

			if err := shortcuts.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return writePlain("shortcut @%s -> %s\n", args[0], args[1])
		},
	}
	return cmd
}

func newShortcutResolveCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve NICKNAME",
		Short: "Print the clip id a nickname points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortcuts, err := env.factory.ShortcutRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer shortcuts.Close()

			sc, err := shortcuts.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(sc)
			}
			return writePlain("%s\n", sc.ClipID)
		},
	}
	return cmd
}

func newShortcutRmCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm NICKNAME",
		Short: "Remove a nickname",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortcuts, err := env.factory.ShortcutRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer shortcuts.Close()

			if err := shortcuts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writePlain("removed @%s\n", args[0])
		},
	}
	return cmd
}

func newShortcutListCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nicknames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shortcuts, err := env.factory.ShortcutRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer shortcuts.Close()

			listed, err := shortcuts.List(cmd.Context())
			if err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(listed)
			}
			for _, sc := range listed {
				if err := writePlain("@%-20s %s\n", sc.Nickname, sc.ClipID); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
