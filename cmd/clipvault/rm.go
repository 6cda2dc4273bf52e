package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRmCmd(env *cliEnv) *cobra.Command {
	var hard, restore bool

	cmd := &cobra.Command{
		Use:   "rm CLIP_ID|@NICKNAME",
		Short: "Move a clip to the trash, restore it, or delete it for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hard && restore {
				return fmt.Errorf("--hard and --restore are mutually exclusive")
			}

			clips, err := env.factory.ClipRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer clips.Close()

			clipID, err := resolveClipArg(cmd, env, args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			switch {
			case hard:
				if err := clips.HardDelete(ctx, clipID); err != nil {
					return err
				}
				return writePlain("deleted %s\n", clipID)
			case restore:
				if err := clips.Restore(ctx, clipID); err != nil {
					return err
				}
				return writePlain("restored %s\n", clipID)
			default:
				if err := clips.SoftDelete(ctx, clipID); err != nil {
					return err
				}
				return writePlain("trashed %s\n", clipID)
			}
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "delete the clip and its payloads permanently")
	cmd.Flags().BoolVar(&restore, "restore", false, "restore a trashed clip")
	return cmd
}

func newPurgeCmd(env *cliEnv) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete trashed clips older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clips, err := env.factory.ClipRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer clips.Close()

			cutoff := time.Now().Add(-olderThan)
			count, err := clips.Purge(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(map[string]int{"purged": count})
			}
			return writePlain("purged %d clip(s)\n", count)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "purge clips trashed longer ago than this")
	return cmd
}
