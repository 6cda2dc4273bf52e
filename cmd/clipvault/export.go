package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clipvault/internal/store"
	"clipvault/internal/transfer"
)

// clipArchive is the on-disk export form of one clip: a YAML document with
// the header and per-format metadata, payload bytes in sibling files.
type clipArchive struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Creator     string          `yaml:"creator,omitempty"`
	SourceUrl   string          `yaml:"source_url,omitempty"`
	CapturedAt  time.Time       `yaml:"captured_at"`
	Type        string          `yaml:"type"`
	ContentHash string          `yaml:"content_hash,omitempty"`
	Checksum    string          `yaml:"checksum,omitempty"`
	IsFavorite  bool            `yaml:"is_favorite,omitempty"`
	Formats     []archiveFormat `yaml:"formats"`
}

type archiveFormat struct {
	Name        string `yaml:"name"`
	Code        int    `yaml:"code"`
	StorageType string `yaml:"storage_type"`
	File        string `yaml:"file"`
}

func newExportCmd(env *cliEnv) *cobra.Command {
	var outDir, collection string

	cmd := &cobra.Command{
		Use:   "export [CLIP_ID...]",
		Short: "Export clips to a directory of YAML documents and payload files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				return fmt.Errorf("--out is required")
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			dbc, err := env.factory.CreateContext(env.dbKey())
			if err != nil {
				return err
			}
			defer dbc.Close()

			ctx := cmd.Context()
			ids := args
			if collection != "" {
				clips, err := dbc.Clips().ListByCollection(ctx, collection, false)
				if err != nil {
					return err
				}
				for _, clip := range clips {
					ids = append(ids, clip.ID)
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("nothing to export: pass clip ids or --collection")
			}

			for _, id := range ids {
				if err := exportClip(ctx, dbc, id, outDir); err != nil {
					return fmt.Errorf("export %s: %w", id, err)
				}
			}
			return writePlain("exported %d clip(s) to %s\n", len(ids), outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().StringVar(&collection, "collection", "", "export every clip in this collection")
	return cmd
}

func exportClip(ctx context.Context, dbc *store.DBContext, clipID, outDir string) error {
	clip, formats, err := transfer.ReadClipGraph(ctx, dbc, clipID)
	if err != nil {
		return err
	}

	archive := clipArchive{
		ID:          clip.ID,
		Title:       clip.Title,
		Creator:     clip.Creator,
		SourceUrl:   clip.SourceUrl,
		CapturedAt:  clip.CapturedAt,
		Type:        string(clip.Type),
		ContentHash: clip.ContentHash,
		Checksum:    clip.Checksum,
		IsFavorite:  clip.IsFavorite,
	}

	for i, format := range formats {
		payloadName := fmt.Sprintf("%s.%d.payload", clip.ID, i)
		if err := os.WriteFile(filepath.Join(outDir, payloadName), format.Data, 0o644); err != nil {
			return err
		}
		archive.Formats = append(archive.Formats, archiveFormat{
			Name:        format.Name,
			Code:        format.Code,
			StorageType: string(format.StorageType),
			File:        payloadName,
		})
	}

	doc, err := yaml.Marshal(archive)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, clip.ID+".yaml"), doc, 0o644)
}
