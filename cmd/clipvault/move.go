package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliperr "clipvault/internal/errors"
)

func newMoveCmd(env *cliEnv) *cobra.Command {
	var from, to, collection, folder string

	cmd := &cobra.Command{
		Use:   "move CLIP_ID",
		Short: "Move a clip, within one database or into another",
		Long: `Move a clip to another collection, folder or database.

Within one database file the clip keeps its identity. Across files the
move is a copy followed by a delete of the original; if the delete fails
after the copy committed, the clip exists in both files and the command
reports the surviving clone so the duplicate can be cleaned up by hand.`,
		Args: cobra.ExactArgs(1),
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

			result, err := env.service.Move(cmd.Context(), source, target, clipID, collection, folder)
			if err != nil {
				if cliperr.IsKind(err, cliperr.KindTransferPartial) {
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
					fmt.Fprintf(os.Stderr, "the clone %s is intact in the target; remove the original by hand\n", result.ClipID)
					if env.jsonOut {
						_ = writeJSON(result)
					}
				}
				return err
			}
			if env.jsonOut {
				return writeJSON(result)
			}
			return writePlain("moved %s -> %s\n", clipID, result.ClipID)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source database alias or path (default: --db)")
	cmd.Flags().StringVar(&to, "to", "", "target database alias or path (default: --db)")
	cmd.Flags().StringVar(&collection, "collection", "", "target collection id")
	cmd.Flags().StringVar(&folder, "folder", "", "target folder id")
	return cmd
}
