package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
)

const clipColumns = "id, title, creator, source_url, captured_at, type, content_hash, collection_id, folder_id, is_favorite, del, del_date, sort_key, checksum"

// ClipRepository persists clip headers and owns the multi-table write
// protocol that keeps a clip's header, clip_data and blob rows consistent.
type ClipRepository struct {
	dbc *DBContext
}

// Close releases the underlying handle.
func (r *ClipRepository) Close() error {
	return r.dbc.Close()
}

// Context returns the handle this repository is bound to.
func (r *ClipRepository) Context() *DBContext {
	return r.dbc
}

// Create inserts a clip header together with one clip_data row and one blob
// row per captured format, all in a single transaction. The blob row's
// clip_id is a denormalized copy of the header id; this write path is the
// only place that sets it.
func (r *ClipRepository) Create(ctx context.Context, clip *models.Clip, formats []models.Format) error {
	if clip == nil {
		return cliperr.NewValidation("clip is required")
	}
	if len(formats) == 0 {
		return cliperr.NewValidation("at least one captured format is required")
	}
	for _, f := range formats {
		if !f.StorageType.Valid() {
			return cliperr.NewValidation(fmt.Sprintf("unknown storage type %q", f.StorageType))
		}
	}

	if clip.ID == "" {
		clip.ID = NewID()
	}
	if clip.CapturedAt.IsZero() {
		clip.CapturedAt = time.Now().UTC()
	}
	if clip.ContentHash == "" {
		clip.ContentHash = ContentHash(formats)
	}
	if clip.Checksum == "" {
		clip.Checksum = Checksum(formats)
	}

	tx, err := r.dbc.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clips (`+clipColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		clip.ID,
		clip.Title,
		nullIfEmpty(clip.Creator),
		nullIfEmpty(clip.SourceUrl),
		formatTime(clip.CapturedAt),
		string(clip.Type),
		nullIfEmpty(clip.ContentHash),
		nullIfEmpty(clip.CollectionID),
		nullIfEmpty(clip.FolderID),
		boolToInt(clip.IsFavorite),
		boolToInt(clip.Del),
		nullTime(clip.DelDate),
		clip.SortKey,
		nullIfEmpty(clip.Checksum),
	)
	if err != nil {
		return err
	}

	for _, f := range formats {
		if err = insertFormat(ctx, tx, clip.ID, f); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// insertFormat writes one clip_data row plus exactly one blob row of the
// matching storage class.
func insertFormat(ctx context.Context, tx *sql.Tx, clipID string, f models.Format) error {
	clipDataID := NewID()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO clip_data (id, clip_id, format_name, format, storage_type, size)
		VALUES (?, ?, ?, ?, ?, ?)
	`, clipDataID, clipID, f.Name, f.Code, string(f.StorageType), int64(len(f.Data)))
	if err != nil {
		return err
	}

	table, err := blobTable(f.StorageType)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO "+table+" (id, clip_data_id, clip_id, payload) VALUES (?, ?, ?, ?)",
		NewID(), clipDataID, clipID, blobValue(f.StorageType, f.Data),
	)
	return err
}

// Get returns a clip by id, including soft-deleted ones.
func (r *ClipRepository) Get(ctx context.Context, id string) (*models.Clip, error) {
	row := r.dbc.db.QueryRowContext(ctx, "SELECT "+clipColumns+" FROM clips WHERE id = ?", id)
	clip, err := scanClip(row)
	if err != nil {
		return nil, err
	}
	if clip == nil {
		return nil, cliperr.NewNotFound("clip", id)
	}
	return clip, nil
}

// Exists reports whether a clip row exists.
func (r *ClipRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.dbc.db.QueryRowContext(ctx, "SELECT 1 FROM clips WHERE id = ? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClipUpdate describes header fields to update.
type ClipUpdate struct {
	Title        *string
	Creator      *string
	SourceUrl    *string
	CollectionID *string
	FolderID     *string
	IsFavorite   *bool
	SortKey      *int
}

// Update updates mutable header fields on a clip.
func (r *ClipRepository) Update(ctx context.Context, id string, update ClipUpdate) error {
	if id == "" {
		return cliperr.NewValidation("id is required")
	}

	set := []string{}
	args := []any{}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Creator != nil {
		set = append(set, "creator = ?")
		args = append(args, nullIfEmpty(*update.Creator))
	}
	if update.SourceUrl != nil {
		set = append(set, "source_url = ?")
		args = append(args, nullIfEmpty(*update.SourceUrl))
	}
	if update.CollectionID != nil {
		set = append(set, "collection_id = ?")
		args = append(args, nullIfEmpty(*update.CollectionID))
	}
	if update.FolderID != nil {
		set = append(set, "folder_id = ?")
		args = append(args, nullIfEmpty(*update.FolderID))
	}
	if update.IsFavorite != nil {
		set = append(set, "is_favorite = ?")
		args = append(args, boolToInt(*update.IsFavorite))
	}
	if update.SortKey != nil {
		set = append(set, "sort_key = ?")
		args = append(args, *update.SortKey)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE clips SET %s WHERE id = ?", strings.Join(set, ", "))
	res, err := r.dbc.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRow(res, "clip", id)
}

// Move repoints a clip's collection and folder. Same-database move only;
// no rows are duplicated.
func (r *ClipRepository) Move(ctx context.Context, id, collectionID, folderID string) error {
	res, err := r.dbc.db.ExecContext(ctx,
		"UPDATE clips SET collection_id = ?, folder_id = ? WHERE id = ?",
		nullIfEmpty(collectionID), nullIfEmpty(folderID), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "clip", id)
}

// SoftDelete flags a clip as deleted. Its rows persist until purged and are
// excluded from normal listings.
func (r *ClipRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.dbc.db.ExecContext(ctx,
		"UPDATE clips SET del = 1, del_date = ? WHERE id = ?",
		formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "clip", id)
}

// Restore clears the soft-delete flag.
func (r *ClipRepository) Restore(ctx context.Context, id string) error {
	res, err := r.dbc.db.ExecContext(ctx,
		"UPDATE clips SET del = 0, del_date = NULL WHERE id = ?", id,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "clip", id)
}

// HardDelete removes a clip row; clip_data and blob rows cascade.
func (r *ClipRepository) HardDelete(ctx context.Context, id string) error {
	res, err := r.dbc.db.ExecContext(ctx, "DELETE FROM clips WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "clip", id)
}

// Purge hard-deletes soft-deleted clips flagged before cutoff and returns
// how many were removed.
func (r *ClipRepository) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.dbc.db.ExecContext(ctx,
		"DELETE FROM clips WHERE del = 1 AND (del_date IS NULL OR del_date < ?)",
		formatTime(cutoff),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListByCollection returns the clips of one collection ordered by sort key.
func (r *ClipRepository) ListByCollection(ctx context.Context, collectionID string, includeTrash bool) ([]models.Clip, error) {
	query := "SELECT " + clipColumns + " FROM clips WHERE collection_id = ?"
	if !includeTrash {
		query += " AND del = 0"
	}
	query += " ORDER BY sort_key ASC, captured_at DESC"
	return r.queryClips(ctx, query, collectionID)
}

// ListByFolder returns the clips of one folder.
func (r *ClipRepository) ListByFolder(ctx context.Context, folderID string, includeTrash bool) ([]models.Clip, error) {
	query := "SELECT " + clipColumns + " FROM clips WHERE folder_id = ?"
	if !includeTrash {
		query += " AND del = 0"
	}
	query += " ORDER BY sort_key ASC, captured_at DESC"
	return r.queryClips(ctx, query, folderID)
}

// ListRecent returns the most recently captured clips.
func (r *ClipRepository) ListRecent(ctx context.Context, limit int) ([]models.Clip, error) {
	query := "SELECT " + clipColumns + " FROM clips WHERE del = 0 ORDER BY captured_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryClips(ctx, query, args...)
}

// ListFavorites returns favorite clips.
func (r *ClipRepository) ListFavorites(ctx context.Context) ([]models.Clip, error) {
	return r.queryClips(ctx,
		"SELECT "+clipColumns+" FROM clips WHERE is_favorite = 1 AND del = 0 ORDER BY captured_at DESC")
}

// Search returns clips whose title, creator, source url or text payload
// satisfies the clip_match predicate (see internal/search for the grammar).
func (r *ClipRepository) Search(ctx context.Context, query string, includeTrash bool) ([]models.Clip, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, cliperr.NewValidation("search query is required")
	}

	sqlQuery := `
		SELECT ` + clipColumns + ` FROM clips c
		WHERE (
			clip_match(c.title, ?)
			OR clip_match(COALESCE(c.creator, ''), ?)
			OR clip_match(COALESCE(c.source_url, ''), ?)
			OR EXISTS (
				SELECT 1 FROM blob_text b
				WHERE b.clip_id = c.id AND clip_match(COALESCE(b.payload, ''), ?)
			)
		)`
	if !includeTrash {
		sqlQuery += " AND c.del = 0"
	}
	sqlQuery += " ORDER BY c.captured_at DESC"

	return r.queryClips(ctx, sqlQuery, q, q, q, q)
}

func (r *ClipRepository) queryClips(ctx context.Context, query string, args ...any) ([]models.Clip, error) {
	rows, err := r.dbc.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []models.Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, *clip)
	}
	return clips, rows.Err()
}

func scanClip(scanner interface {
	Scan(dest ...any) error
}) (*models.Clip, error) {
	var clip models.Clip
	var creator, sourceUrl, contentHash, collectionID, folderID, checksum sql.NullString
	var capturedAt string
	var delDate sql.NullString
	var isFavorite, del int
	var clipType string

	if err := scanner.Scan(
		&clip.ID,
		&clip.Title,
		&creator,
		&sourceUrl,
		&capturedAt,
		&clipType,
		&contentHash,
		&collectionID,
		&folderID,
		&isFavorite,
		&del,
		&delDate,
		&clip.SortKey,
		&checksum,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	clip.Creator = creator.String
	clip.SourceUrl = sourceUrl.String
	clip.ContentHash = contentHash.String
	clip.CollectionID = collectionID.String
	clip.FolderID = folderID.String
	clip.Checksum = checksum.String
	clip.Type = models.ClipType(clipType)
	clip.IsFavorite = isFavorite != 0
	clip.Del = del != 0

	parsedCaptured, err := parseTime(capturedAt)
	if err != nil {
		return nil, err
	}
	clip.CapturedAt = parsedCaptured

	if delDate.Valid {
		parsedDel, err := parseTime(delDate.String)
		if err != nil {
			return nil, err
		}
		clip.DelDate = &parsedDel
	}

	return &clip, nil
}

// requireRow converts a zero-row update/delete into a typed NotFound.
func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return cliperr.NewNotFound(what, id)
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimRight(strings.Repeat("?,", count), ",")
}
