package store

import (
	"context"

	"clipvault/internal/models"
)

// ClipDataRepository reads the per-format metadata rows of a clip.
// Rows are only ever written through ClipRepository.Create; see the write
// protocol there.
type ClipDataRepository struct {
	dbc *DBContext
}

// Close releases the underlying handle.
func (r *ClipDataRepository) Close() error {
	return r.dbc.Close()
}

// ListByClip returns all clip_data rows for a clip, ordered by format name.
func (r *ClipDataRepository) ListByClip(ctx context.Context, clipID string) ([]models.ClipData, error) {
	rows, err := r.dbc.db.QueryContext(ctx, `
		SELECT id, clip_id, format_name, format, storage_type, size
		FROM clip_data WHERE clip_id = ? ORDER BY format_name ASC
	`, clipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.ClipData
	for rows.Next() {
		var cd models.ClipData
		var storageType string
		if err := rows.Scan(&cd.ID, &cd.ClipID, &cd.FormatName, &cd.Format, &storageType, &cd.Size); err != nil {
			return nil, err
		}
		cd.StorageType = models.StorageType(storageType)
		list = append(list, cd)
	}
	return list, rows.Err()
}

// CountByClip returns the number of clip_data rows for a clip.
func (r *ClipDataRepository) CountByClip(ctx context.Context, clipID string) (int, error) {
	var count int
	err := r.dbc.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clip_data WHERE clip_id = ?", clipID).Scan(&count)
	return count, err
}
