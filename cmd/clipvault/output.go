package main

import (
	"fmt"
	"os"
	"time"

	"clipvault/internal/format"
	"clipvault/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(formatStr string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, formatStr, args...)
	return err
}

func writeClipList(clips []models.Clip) error {
	for _, clip := range clips {
		if err := writePlain("%s\n", formatClipLine(clip)); err != nil {
			return err
		}
	}
	return nil
}

func formatClipLine(clip models.Clip) string {
	marker := " "
	if clip.IsFavorite {
		marker = "*"
	}
	if clip.Del {
		marker = "x"
	}
	return fmt.Sprintf("%s %s  %-7s %s  %s",
		marker, clip.ID, clip.Type, formatTimestamp(clip.CapturedAt), clip.Title)
}

func writeClipDetail(clip *models.Clip, data []models.ClipData) error {
	lines := []string{
		fmt.Sprintf("id: %s", clip.ID),
		fmt.Sprintf("title: %s", clip.Title),
		fmt.Sprintf("type: %s", clip.Type),
		fmt.Sprintf("captured_at: %s", formatTimestamp(clip.CapturedAt)),
	}
	if clip.Creator != "" {
		lines = append(lines, fmt.Sprintf("creator: %s", clip.Creator))
	}
	if clip.SourceUrl != "" {
		lines = append(lines, fmt.Sprintf("source_url: %s", clip.SourceUrl))
	}
	if clip.CollectionID != "" {
		lines = append(lines, fmt.Sprintf("collection: %s", clip.CollectionID))
	}
	if clip.FolderID != "" {
		lines = append(lines, fmt.Sprintf("folder: %s", clip.FolderID))
	}
	if clip.ContentHash != "" {
		lines = append(lines, fmt.Sprintf("content_hash: %s", clip.ContentHash))
	}
	if clip.IsFavorite {
		lines = append(lines, "favorite: true")
	}
	if clip.Del {
		lines = append(lines, "deleted: true")
	}
	if len(data) > 0 {
		lines = append(lines, "formats:")
		for _, row := range data {
			lines = append(lines, fmt.Sprintf("  - %s (%s, %d bytes)", row.FormatName, row.StorageType, row.Size))
		}
	}

	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func writeCollectionList(cols []models.Collection) error {
	for _, col := range cols {
		parent := "-"
		if col.ParentID != "" {
			parent = col.ParentID
		}
		if err := writePlain("%s  %-8s parent=%s  %s\n", col.ID, col.Role, parent, col.Title); err != nil {
			return err
		}
	}
	return nil
}

// writeCollectionTree prints collections indented by depth. The slice is
// expected in tree order with parents before their children.
func writeCollectionTree(cols []models.Collection) error {
	depth := map[string]int{}
	for _, col := range cols {
		d := 0
		if parentDepth, ok := depth[col.ParentID]; ok {
			d = parentDepth + 1
		}
		depth[col.ID] = d

		indent := ""
		for i := 0; i < d; i++ {
			indent += "  "
		}
		if err := writePlain("%s%s  %s\n", indent, col.ID, col.Title); err != nil {
			return err
		}
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
