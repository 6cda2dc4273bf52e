package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/models"
)

func newCollectionsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Manage collections",
	}

	cmd.AddCommand(
		newCollectionsListCmd(env),
		newCollectionsCreateCmd(env),
		newCollectionsRenameCmd(env),
		newCollectionsRmCmd(env),
		newCollectionsTreeCmd(env),
	)
	return cmd
}

func newCollectionsListCmd(env *cliEnv) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := env.factory.CollectionRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer cols.Close()

			var listed []models.Collection
			if parent != "" {
				listed, err = cols.Children(cmd.Context(), parent)
			} else {
				listed, err = cols.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(listed)
			}
			return writeCollectionList(listed)
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "list only children of this collection")
	return cmd
}

func newCollectionsCreateCmd(env *cliEnv) *cobra.Command {
	var parent, role string

	cmd := &cobra.Command{
		Use:   "create TITLE",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := env.factory.CollectionRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer cols.Close()

			col := &models.Collection{
				Title:    args[0],
				ParentID: parent,
				Role:     models.CollectionRole(role),
			}
			if err := cols.Create(cmd.Context(), col); err != nil {
				return err
			}
			if env.jsonOut {
				return writeJSON(col)
			}
			return writePlain("created collection %s\n", col.ID)
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent collection id")
	cmd.Flags().StringVar(&role, "role", string(models.RoleCustom), "collection role (inbox, safe, overflow, trash, custom)")
	return cmd
}

func newCollectionsRenameCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename COLLECTION_ID TITLE",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := env.factory.CollectionRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer cols.Close()

			col, err := cols.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			col.Title = args[1]
			if err := cols.Update(cmd.Context(), col); err != nil {
				return err
			}
			return writePlain("renamed %s\n", col.ID)
		},
	}
	return cmd
}

func newCollectionsRmCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm COLLECTION_ID",
		Short: "Delete an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := env.factory.CollectionRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer cols.Close()

			if err := cols.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writePlain("deleted collection %s\n", args[0])
		},
	}
	return cmd
}

func newCollectionsTreeCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [COLLECTION_ID]",
		Short: "Show a collection subtree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := env.factory.CollectionRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer cols.Close()

			var listed []models.Collection
			if len(args) == 1 {
				root, err := cols.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				descendants, err := cols.Descendants(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				listed = append([]models.Collection{*root}, descendants...)
			} else {
				listed, err = cols.List(cmd.Context())
				if err != nil {
					return err
				}
			}
			if env.jsonOut {
				return writeJSON(listed)
			}
			return writeCollectionTree(listed)
		},
	}
	return cmd
}
