package main

import (
	"github.com/spf13/cobra"
)

func newCopyCmd(env *cliEnv) *cobra.Command {
	var from, to, collection, folder string

	cmd := &cobra.Command{
		Use:   "copy CLIP_ID",
		Short: "Copy a clip, within one database or into another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := from
			if source == "" {
				source = env.dbKey()
			}
			target := to
			if target == "" {
				target = env.dbKey()
			}

			clipID, err := resolveClipArg(cmd, env, args[0])
			if err != nil {
				return err
			}

			result, err := env.service.Copy(cmd.Context(), source, target, clipID, collection, folder)
			if err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(result)
			}
			return writePlain("copied %s -> %s\n", clipID, result.ClipID)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source database alias or path (default: --db)")
	cmd.Flags().StringVar(&to, "to", "", "target database alias or path (default: --db)")
	cmd.Flags().StringVar(&collection, "collection", "", "target collection id")
	cmd.Flags().StringVar(&folder, "folder", "", "target folder id")
	return cmd
}
