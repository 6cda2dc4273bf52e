package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"clipvault/internal/models"
)

func newCaptureCmd(env *cliEnv) *cobra.Command {
	var (
		title       string
		clipType    string
		collection  string
		folder      string
		sourceUrl   string
		creator     string
		formatName  string
		storageType string
		fromFile    string
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Store a clip from stdin or a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readCaptureInput(fromFile)
			if err != nil {
				return err
			}
			if title == "" {
				title = captureTitle(data)
			}

			repo, err := env.factory.ClipRepository(env.dbKey())
			if err != nil {
				return err
			}
			defer repo.Close()

			clip := &models.Clip{
				Title:        title,
				Creator:      creator,
				SourceUrl:    sourceUrl,
				Type:         models.ClipType(clipType),
				CollectionID: collection,
				FolderID:     folder,
			}
			formats := []models.Format{{
				Name:        formatName,
				StorageType: models.StorageType(storageType),
				Data:        data,
			}}
			if err := repo.Create(cmd.Context(), clip, formats); err != nil {
				return err
			}

			if env.jsonOut {
				return writeJSON(clip)
			}
			return writePlain("%s\n", clip.ID)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "clip title (default: derived from content)")
	cmd.Flags().StringVar(&clipType, "type", string(models.ClipTypeText), "clip type")
	cmd.Flags().StringVar(&collection, "collection", "", "target collection id")
	cmd.Flags().StringVar(&folder, "folder", "", "target folder id")
	cmd.Flags().StringVar(&sourceUrl, "source-url", "", "source url")
	cmd.Flags().StringVar(&creator, "creator", "", "creator")
	cmd.Flags().StringVar(&formatName, "format-name", "CF_TEXT", "clipboard format name")
	cmd.Flags().StringVar(&storageType, "storage", string(models.StorageText), "storage class (text, jpeg, png, binary)")
	cmd.Flags().StringVar(&fromFile, "file", "", "read payload from file instead of stdin")

	return cmd
}

func readCaptureInput(fromFile string) ([]byte, error) {
	if fromFile != "" {
		return os.ReadFile(fromFile)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// captureTitle derives a short title from the first line of the payload.
func captureTitle(data []byte) string {
	const maxTitle = 60
	title := string(data)
	for i, r := range title {
		if r == '\n' || r == '\r' {
			title = title[:i]
			break
		}
	}
	if len(title) > maxTitle {
		title = title[:maxTitle]
	}
	if title == "" {
		title = "(untitled clip)"
	}
	return title
}
