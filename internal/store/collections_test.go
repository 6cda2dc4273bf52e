package store

import (
	"context"
	"testing"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
)

func collectionTree(t *testing.T, dbc *DBContext) (root, child, grandchild *models.Collection) {
	t.Helper()
	ctx := context.Background()
	cols := dbc.Collections()

	root = &models.Collection{Title: "Root", Role: models.RoleInbox}
	if err := cols.Create(ctx, root); err != nil {
		t.Fatalf("create root: %v", err)
	}
	child = &models.Collection{Title: "Child", ParentID: root.ID}
	if err := cols.Create(ctx, child); err != nil {
		t.Fatalf("create child: %v", err)
	}
	grandchild = &models.Collection{Title: "Grandchild", ParentID: child.ID}
	if err := cols.Create(ctx, grandchild); err != nil {
		t.Fatalf("create grandchild: %v", err)
	}
	return root, child, grandchild
}

func TestCollectionHierarchy(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()
	cols := dbc.Collections()

	root, child, grandchild := collectionTree(t, dbc)

	ancestors, err := cols.Ancestors(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if len(ancestors) != 2 || ancestors[0].ID != child.ID || ancestors[1].ID != root.ID {
		t.Fatalf("unexpected ancestor chain: %+v", ancestors)
	}

	descendants, err := cols.Descendants(ctx, root.ID)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	if len(descendants) != 2 {
		t.Fatalf("expected 2 descendants, got %+v", descendants)
	}

	roots, err := cols.Roots(ctx)
	if err != nil {
		t.Fatalf("roots: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Fatalf("unexpected roots: %+v", roots)
	}

	inbox, err := cols.ByRole(ctx, models.RoleInbox)
	if err != nil {
		t.Fatalf("by role: %v", err)
	}
	if inbox.ID != root.ID {
		t.Fatalf("expected root as inbox, got %+v", inbox)
	}
}

func TestCollectionCycleDefense(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()
	cols := dbc.Collections()

	a := &models.Collection{Title: "A"}
	if err := cols.Create(ctx, a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	b := &models.Collection{Title: "B", ParentID: a.ID}
	if err := cols.Create(ctx, b); err != nil {
		t.Fatalf("create b: %v", err)
	}

	// Corrupt the data into a cycle the way a broken writer would.
	if _, err := dbc.db.ExecContext(ctx,
		"UPDATE collections SET parent_id = ? WHERE id = ?", b.ID, a.ID); err != nil {
		t.Fatalf("induce cycle: %v", err)
	}

	// Traversals must terminate.
	if _, err := cols.Ancestors(ctx, a.ID); err != nil {
		t.Fatalf("ancestors on cyclic data: %v", err)
	}
	descendants, err := cols.Descendants(ctx, a.ID)
	if err != nil {
		t.Fatalf("descendants on cyclic data: %v", err)
	}
	for _, d := range descendants {
		if d.ID == a.ID {
			t.Fatal("start collection visited as its own descendant")
		}
	}
}

func TestCollectionDeleteRestricted(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()
	cols := dbc.Collections()

	root, child, grandchild := collectionTree(t, dbc)

	if err := cols.Delete(ctx, root.ID); !cliperr.IsKind(err, cliperr.KindValidation) {
		t.Fatalf("expected validation error deleting non-empty collection, got %v", err)
	}

	clip := &models.Clip{Title: "occupant", Type: models.ClipTypeText, CollectionID: grandchild.ID}
	if err := dbc.Clips().Create(ctx, clip, textFormats("x")); err != nil {
		t.Fatalf("create clip: %v", err)
	}
	if err := cols.Delete(ctx, grandchild.ID); !cliperr.IsKind(err, cliperr.KindValidation) {
		t.Fatalf("expected validation error deleting occupied collection, got %v", err)
	}

	if err := dbc.Clips().HardDelete(ctx, clip.ID); err != nil {
		t.Fatalf("remove clip: %v", err)
	}
	if err := cols.Delete(ctx, grandchild.ID); err != nil {
		t.Fatalf("delete emptied collection: %v", err)
	}
	if err := cols.Delete(ctx, child.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}

	if _, err := cols.Get(ctx, grandchild.ID); !cliperr.IsKind(err, cliperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
