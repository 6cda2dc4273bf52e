package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/models"
)

func newListCmd(env *cliEnv) *cobra.Command {
	var (
		collection string
		folder     string
		favorites  bool
		trash      bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := env.factory.ClipRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			var clips []models.Clip
			switch {
			case collection != "":
				clips, err = repo.ListByCollection(ctx, collection, trash)
			case folder != "":
				clips, err = repo.ListByFolder(ctx, folder, trash)
			case favorites:
				clips, err = repo.ListFavorites(ctx)
			default:
				clips, err = repo.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}

			if env.jsonOut {
				return writeJSON(clips)
			}
			return writeClipList(clips)
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "list clips of a collection")
	cmd.Flags().StringVar(&folder, "folder", "", "list clips of a folder")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "list favorite clips")
	cmd.Flags().BoolVar(&trash, "trash", false, "include soft-deleted clips")
	cmd.Flags().IntVar(&limit, "limit", 50, "limit recent listing")

	return cmd
}

func newSearchCmd(env *cliEnv) *cobra.Command {
	var trash bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search clips by title, creator, source url or text payload",
		Long: `Search clips using the clipboard query grammar: comma-separated terms
are OR'd, a trailing * matches a prefix and % matches any run of characters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := env.factory.ClipRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer repo.Close()

			clips, err := repo.Search(cmd.Context(), args[0], trash)
			if err != nil {
				return err
			}

			if env.jsonOut {
				return writeJSON(clips)
			}
			return writeClipList(clips)
		},
	}

	cmd.Flags().BoolVar(&trash, "trash", false, "include soft-deleted clips")
	return cmd
}
