package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/store"
)

func newFavCmd(env *cliEnv) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "fav CLIP_ID|@NICKNAME",
		Short: "Mark a clip as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clips, err := env.factory.ClipRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer clips.Close()

			clipID, err := resolveClipArg(cmd, env, args[0])
			if err != nil {
				return err
			}

			favorite := !off
			if err := clips.Update(cmd.Context(), clipID, store.ClipUpdate{IsFavorite: &favorite}); err != nil {
				return err
			}
			if off {
				return writePlain("unfavorited %s\n", clipID)
			}
			return writePlain("favorited %s\n", clipID)
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "clear the favorite mark instead")
	return cmd
}
