package store

import (
	"context"
	"database/sql"
	"fmt"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
)

// BlobRepository reads and updates payloads in one storage-class table.
// New blob rows are only created through ClipRepository.Create.
type BlobRepository struct {
	dbc         *DBContext
	storageType models.StorageType
	table       string
}

func newBlobRepository(dbc *DBContext, storageType models.StorageType) (*BlobRepository, error) {
	table, err := blobTable(storageType)
	if err != nil {
		return nil, err
	}
	return &BlobRepository{dbc: dbc, storageType: storageType, table: table}, nil
}

// blobTable maps a storage class to its payload table. The table name is
// taken from this fixed mapping, never from input.
func blobTable(storageType models.StorageType) (string, error) {
	switch storageType {
	case models.StorageText:
		return "blob_text", nil
	case models.StorageJpeg:
		return "blob_jpeg", nil
	case models.StoragePng:
		return "blob_png", nil
	case models.StorageBinary:
		return "blob_binary", nil
	default:
		return "", cliperr.NewValidation(fmt.Sprintf("unknown storage type %q", storageType))
	}
}

// blobValue binds a payload with the column affinity of its table.
func blobValue(storageType models.StorageType, data []byte) any {
	if storageType == models.StorageText {
		return string(data)
	}
	return data
}

// Close releases the underlying handle.
func (r *BlobRepository) Close() error {
	return r.dbc.Close()
}

// PayloadsByClipIDs batch-fetches the payloads of this storage class for a
// set of clips, keyed by clip_data_id. One query regardless of how many
// formats a viewer renders.
func (r *BlobRepository) PayloadsByClipIDs(ctx context.Context, clipIDs []string) (map[string]models.Payload, error) {
	payloads := make(map[string]models.Payload)
	if len(clipIDs) == 0 {
		return payloads, nil
	}

	query := fmt.Sprintf(
		"SELECT id, clip_data_id, clip_id, payload FROM %s WHERE clip_id IN (%s)",
		r.table, placeholders(len(clipIDs)),
	)
	args := make([]any, 0, len(clipIDs))
	for _, id := range clipIDs {
		args = append(args, id)
	}

	rows, err := r.dbc.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayload(rows)
		if err != nil {
			return nil, err
		}
		payloads[p.ClipDataID] = p
	}
	return payloads, rows.Err()
}

// PayloadByClipDataID returns the single payload owned by a clip_data row.
func (r *BlobRepository) PayloadByClipDataID(ctx context.Context, clipDataID string) (*models.Payload, error) {
	row := r.dbc.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, clip_data_id, clip_id, payload FROM %s WHERE clip_data_id = ?", r.table),
		clipDataID,
	)
	p, err := scanPayload(row)
	if err == sql.ErrNoRows {
		return nil, cliperr.NewNotFound("payload", clipDataID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePayload replaces a payload in place. Header and clip_data metadata
// are left untouched.
func (r *BlobRepository) UpdatePayload(ctx context.Context, clipDataID string, data []byte) error {
	res, err := r.dbc.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET payload = ? WHERE clip_data_id = ?", r.table),
		blobValue(r.storageType, data), clipDataID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "payload", clipDataID)
}

// CountByClip returns how many blob rows of this storage class a clip owns.
func (r *BlobRepository) CountByClip(ctx context.Context, clipID string) (int, error) {
	var count int
	err := r.dbc.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE clip_id = ?", r.table), clipID).Scan(&count)
	return count, err
}

// OrphanCount returns blob rows of this storage class with no clip_data
// parent. Always zero unless a write bypassed the repository layer.
func (r *BlobRepository) OrphanCount(ctx context.Context) (int, error) {
	var count int
	err := r.dbc.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s b WHERE NOT EXISTS (SELECT 1 FROM clip_data d WHERE d.id = b.clip_data_id)",
		r.table)).Scan(&count)
	return count, err
}

func scanPayload(scanner interface {
	Scan(dest ...any) error
}) (models.Payload, error) {
	var p models.Payload
	var payload []byte
	if err := scanner.Scan(&p.ID, &p.ClipDataID, &p.ClipID, &payload); err != nil {
		return models.Payload{}, err
	}
	p.Data = payload
	return p, nil
}
