package store

import (
	"context"
	"database/sql"
	"fmt"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
)

const collectionColumns = "id, title, parent_id, role, max_bytes, max_age_days, sort_key"

// CollectionRepository persists the collection tree. The hierarchy is kept
// as a flat arena of rows with a parent_id; traversal is iterative with a
// visited set so malformed (cyclic) data cannot recurse forever.
type CollectionRepository struct {
	dbc *DBContext
}

// Close releases the underlying handle.
func (r *CollectionRepository) Close() error {
	return r.dbc.Close()
}

// Create inserts a collection.
func (r *CollectionRepository) Create(ctx context.Context, col *models.Collection) error {
	if col == nil {
		return cliperr.NewValidation("collection is required")
	}
	if col.Title == "" {
		return cliperr.NewValidation("collection title is required")
	}
	if col.ID == "" {
		col.ID = NewID()
	}
	if col.Role == "" {
		col.Role = models.RoleCustom
	}

	_, err := r.dbc.db.ExecContext(ctx, `
		INSERT INTO collections (`+collectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, col.ID, col.Title, nullIfEmpty(col.ParentID), string(col.Role), col.MaxBytes, col.MaxAgeDays, col.SortKey)
	return err
}

// Get returns a collection by id.
func (r *CollectionRepository) Get(ctx context.Context, id string) (*models.Collection, error) {
	row := r.dbc.db.QueryRowContext(ctx,
		"SELECT "+collectionColumns+" FROM collections WHERE id = ?", id)
	col, err := scanCollection(row)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, cliperr.NewNotFound("collection", id)
	}
	return col, nil
}

// List returns all collections ordered by sort key.
func (r *CollectionRepository) List(ctx context.Context) ([]models.Collection, error) {
	return r.queryCollections(ctx,
		"SELECT "+collectionColumns+" FROM collections ORDER BY sort_key ASC, title ASC")
}

// Children returns the direct children of a collection.
func (r *CollectionRepository) Children(ctx context.Context, parentID string) ([]models.Collection, error) {
	return r.queryCollections(ctx,
		"SELECT "+collectionColumns+" FROM collections WHERE parent_id = ? ORDER BY sort_key ASC, title ASC",
		parentID)
}

// Roots returns collections with no parent.
func (r *CollectionRepository) Roots(ctx context.Context) ([]models.Collection, error) {
	return r.queryCollections(ctx,
		"SELECT "+collectionColumns+" FROM collections WHERE parent_id IS NULL ORDER BY sort_key ASC, title ASC")
}

// ByRole returns the first collection with the given role, or NotFound.
func (r *CollectionRepository) ByRole(ctx context.Context, role models.CollectionRole) (*models.Collection, error) {
	row := r.dbc.db.QueryRowContext(ctx,
		"SELECT "+collectionColumns+" FROM collections WHERE role = ? ORDER BY sort_key ASC LIMIT 1",
		string(role))
	col, err := scanCollection(row)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, cliperr.NewNotFound("collection", string(role))
	}
	return col, nil
}

// Update updates title, retention fields and sort key.
func (r *CollectionRepository) Update(ctx context.Context, col *models.Collection) error {
	if col == nil || col.ID == "" {
		return cliperr.NewValidation("collection id is required")
	}
	res, err := r.dbc.db.ExecContext(ctx, `
		UPDATE collections SET title = ?, max_bytes = ?, max_age_days = ?, sort_key = ?
		WHERE id = ?
	`, col.Title, col.MaxBytes, col.MaxAgeDays, col.SortKey, col.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "collection", col.ID)
}

// Delete removes an empty collection. Deletion is refused while child
// collections or clips remain.
func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	var children int
	if err := r.dbc.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM collections WHERE parent_id = ?", id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return cliperr.NewValidation(fmt.Sprintf("collection %s has %d child collections", id, children))
	}

	var clips int
	if err := r.dbc.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clips WHERE collection_id = ?", id).Scan(&clips); err != nil {
		return err
	}
	if clips > 0 {
		return cliperr.NewValidation(fmt.Sprintf("collection %s still holds %d clips", id, clips))
	}

	res, err := r.dbc.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "collection", id)
}

// Ancestors returns the parent chain of a collection, nearest first. A
// cycle in the stored data terminates the walk instead of looping.
func (r *CollectionRepository) Ancestors(ctx context.Context, id string) ([]models.Collection, error) {
	arena, err := r.arena(ctx)
	if err != nil {
		return nil, err
	}

	var chain []models.Collection
	visited := map[string]struct{}{id: {}}

	current, ok := arena[id]
	if !ok {
		return nil, cliperr.NewNotFound("collection", id)
	}
	for current.ParentID != "" {
		if _, seen := visited[current.ParentID]; seen {
			break
		}
		parent, ok := arena[current.ParentID]
		if !ok {
			break
		}
		visited[parent.ID] = struct{}{}
		chain = append(chain, parent)
		current = parent
	}
	return chain, nil
}

// Descendants returns every collection below id, breadth-first. Guarded by
// a visited set for the same reason as Ancestors.
func (r *CollectionRepository) Descendants(ctx context.Context, id string) ([]models.Collection, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	childrenOf := map[string][]models.Collection{}
	for _, col := range list {
		if col.ID == id {
			found = true
		}
		if col.ParentID != "" {
			childrenOf[col.ParentID] = append(childrenOf[col.ParentID], col)
		}
	}
	if !found {
		return nil, cliperr.NewNotFound("collection", id)
	}

	var result []models.Collection
	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range childrenOf[current] {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}
	return result, nil
}

// arena loads all collections keyed by id.
func (r *CollectionRepository) arena(ctx context.Context) (map[string]models.Collection, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	arena := make(map[string]models.Collection, len(list))
	for _, col := range list {
		arena[col.ID] = col
	}
	return arena, nil
}

func (r *CollectionRepository) queryCollections(ctx context.Context, query string, args ...any) ([]models.Collection, error) {
	rows, err := r.dbc.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []models.Collection
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *col)
	}
	return cols, rows.Err()
}

func scanCollection(scanner interface {
	Scan(dest ...any) error
}) (*models.Collection, error) {
	var col models.Collection
	var parentID sql.NullString
	var role string

	if err := scanner.Scan(&col.ID, &col.Title, &parentID, &role, &col.MaxBytes, &col.MaxAgeDays, &col.SortKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	col.ParentID = parentID.String
	col.Role = models.CollectionRole(role)
	return &col, nil
}
