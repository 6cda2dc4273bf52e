package main

import (
	"os"

	"github.com/spf13/cobra"

	"clipvault/internal/models"
	"clipvault/internal/store"
)

func newShowCmd(env *cliEnv) *cobra.Command {
	var payload bool

	cmd := &cobra.Command{
		Use:   "show CLIP_ID|@NICKNAME",
		Short: "Show one clip with its captured formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := env.factory.CreateContext(env.dbKey())
			if err != nil {
				return err
			}
			defer dbc.Close()

			ctx := cmd.Context()
			clipID, err := resolveClipArg(cmd, env, args[0])
			if err != nil {
				return err
			}

			clip, err := dbc.Clips().Get(ctx, clipID)
			if err != nil {
				return err
			}
			data, err := dbc.ClipData().ListByClip(ctx, clipID)
			if err != nil {
				return err
			}

			if payload {
				return dumpTextPayloads(cmd, dbc, clipID, data)
			}
			if env.jsonOut {
				return writeJSON(struct {
					Clip    *models.Clip      `json:"clip"`
					Formats []models.ClipData `json:"formats"`
				}{clip, data})
			}
			return writeClipDetail(clip, data)
		},
	}

	cmd.Flags().BoolVar(&payload, "payload", false, "write text payloads to stdout")
	return cmd
}

// resolveClipArg accepts a raw clip id or an @nickname shortcut.
func resolveClipArg(cmd *cobra.Command, env *cliEnv, arg string) (string, error) {
	if len(arg) == 0 || arg[0] != '@' {
		return arg, nil
	}

	shortcuts, err := env.factory.ShortcutRepository(env.dbKey())
	if err != nil {
		return "", err
	}
	defer shortcuts.Close()

	sc, err := shortcuts.Resolve(cmd.Context(), arg[1:])
	if err != nil {
		return "", err
	}
	return sc.ClipID, nil
}

func dumpTextPayloads(cmd *cobra.Command, dbc *store.DBContext, clipID string, data []models.ClipData) error {
	blobs, err := dbc.Blobs(models.StorageText)
	if err != nil {
		return err
	}
	payloads, err := blobs.PayloadsByClipIDs(cmd.Context(), []string{clipID})
	if err != nil {
		return err
	}
	for _, row := range data {
		if row.StorageType != models.StorageText {
			continue
		}
		if p, ok := payloads[row.ID]; ok {
			if _, err := os.Stdout.Write(p.Data); err != nil {
				return err
			}
		}
	}
	return nil
}
