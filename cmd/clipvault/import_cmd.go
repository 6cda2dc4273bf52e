package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clipvault/internal/models"
)

func newImportCmd(env *cliEnv) *cobra.Command {
	var inDir, collection, folder string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import clips from an export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inDir == "" {
				return fmt.Errorf("--in is required")
			}

			entries, err := os.ReadDir(inDir)
			if err != nil {
				return err
			}

			dbc, err := env.factory.CreateContext(env.dbKey())
			if err != nil {
				return err
			}
			defer dbc.Close()

			ctx := cmd.Context()
			created, skipped := 0, 0
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
					continue
				}

				archive, formats, err := readArchive(inDir, entry.Name())
				if err != nil {
					return fmt.Errorf("%s: %w", entry.Name(), err)
				}

				// Re-importing an export of the same file is a no-op per clip.
				exists, err := dbc.Clips().Exists(ctx, archive.ID)
				if err != nil {
					return err
				}
				if exists {
					skipped++
					continue
				}
				if dryRun {
					created++
					continue
				}

				clip := &models.Clip{
					ID:           archive.ID,
					Title:        archive.Title,
					Creator:      archive.Creator,
					SourceUrl:    archive.SourceUrl,
					CapturedAt:   archive.CapturedAt,
					Type:         models.ClipType(archive.Type),
					ContentHash:  archive.ContentHash,
					Checksum:     archive.Checksum,
					IsFavorite:   archive.IsFavorite,
					CollectionID: collection,
					FolderID:     folder,
				}
				if err := dbc.Clips().Create(ctx, clip, formats); err != nil {
					return fmt.Errorf("%s: %w", entry.Name(), err)
				}
				created++
			}

			if env.jsonOut {
				return writeJSON(map[string]int{"created": created, "skipped": skipped})
			}
			return writePlain("created: %d, skipped: %d\n", created, skipped)
		},
	}

	cmd.Flags().StringVarP(&inDir, "in", "i", "", "directory written by export")
	cmd.Flags().StringVar(&collection, "collection", "", "collection to import into")
	cmd.Flags().StringVar(&folder, "folder", "", "folder to import into")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be imported without writing")
	return cmd
}

func readArchive(dir, name string) (clipArchive, []models.Format, error) {
	doc, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return clipArchive{}, nil, err
	}

	var archive clipArchive
	if err := yaml.Unmarshal(doc, &archive); err != nil {
		return clipArchive{}, nil, err
	}
	if archive.ID == "" {
		return clipArchive{}, nil, fmt.Errorf("archive document has no id")
	}

	formats := make([]models.Format, 0, len(archive.Formats))
	for _, af := range archive.Formats {
		// Payload paths are relative to the archive directory only.
		if filepath.Base(af.File) != af.File {
			return clipArchive{}, nil, fmt.Errorf("payload file %q escapes the archive directory", af.File)
		}
		data, err := os.ReadFile(filepath.Join(dir, af.File))
		if err != nil {
			return clipArchive{}, nil, err
		}
		formats = append(formats, models.Format{
			Name:        af.Name,
			Code:        af.Code,
			StorageType: models.StorageType(af.StorageType),
			Data:        data,
		})
	}
	return archive, formats, nil
}
