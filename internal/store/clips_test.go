package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
)

func TestCreateClipRoundTrip(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	clip := mustCreateClip(t, dbc, "multi format", []models.Format{
		{Name: "CF_TEXT", Code: 1, StorageType: models.StorageText, Data: []byte("plain text")},
		{Name: "HTML Format", Code: 49351, StorageType: models.StorageText, Data: []byte("<b>html</b>")},
		{Name: "PNG", Code: 49352, StorageType: models.StoragePng, Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	})

	if clip.ID == "" {
		t.Fatal("expected generated clip id")
	}
	if clip.ContentHash == "" || clip.Checksum == "" {
		t.Fatal("expected content hash and checksum to be filled in")
	}

	dataRows, err := dbc.ClipData().ListByClip(ctx, clip.ID)
	if err != nil {
		t.Fatalf("list clip data: %v", err)
	}
	if len(dataRows) != 3 {
		t.Fatalf("expected 3 clip_data rows, got %d", len(dataRows))
	}

	// Every clip_data row pairs with exactly one blob row of its storage
	// class, and the denormalized clip_id matches.
	for _, row := range dataRows {
		if row.ClipID != clip.ID {
			t.Fatalf("clip_data %s has clip_id %s, want %s", row.ID, row.ClipID, clip.ID)
		}
		blobs, err := dbc.Blobs(row.StorageType)
		if err != nil {
			t.Fatalf("blob repo: %v", err)
		}
		payload, err := blobs.PayloadByClipDataID(ctx, row.ID)
		if err != nil {
			t.Fatalf("payload for %s: %v", row.ID, err)
		}
		if payload.ClipID != clip.ID {
			t.Fatalf("blob row clip_id %s, want %s", payload.ClipID, clip.ID)
		}
		if int64(len(payload.Data)) != row.Size {
			t.Fatalf("payload size %d, clip_data size %d", len(payload.Data), row.Size)
		}
	}
}

func TestCreateClipValidation(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	err := dbc.Clips().Create(ctx, &models.Clip{Title: "x"}, nil)
	if !cliperr.IsKind(err, cliperr.KindValidation) {
		t.Fatalf("expected validation error for empty formats, got %v", err)
	}

	err = dbc.Clips().Create(ctx, &models.Clip{Title: "x"}, []models.Format{
		{Name: "CF_TEXT", StorageType: models.StorageType("tiff"), Data: []byte("x")},
	})
	if !cliperr.IsKind(err, cliperr.KindValidation) {
		t.Fatalf("expected validation error for unknown storage type, got %v", err)
	}
}

func TestSoftDeleteExcludedFromListings(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	cols := dbc.Collections()
	inbox := &models.Collection{Title: "Inbox", Role: models.RoleInbox}
	if err := cols.Create(ctx, inbox); err != nil {
		t.Fatalf("create collection: %v", err)
	}

	clip := &models.Clip{Title: "doomed", Type: models.ClipTypeText, CollectionID: inbox.ID}
	if err := dbc.Clips().Create(ctx, clip, textFormats("bye")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := dbc.Clips().SoftDelete(ctx, clip.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	listed, err := dbc.Clips().ListByCollection(ctx, inbox.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("soft-deleted clip still listed: %v", listed)
	}

	trashed, err := dbc.Clips().ListByCollection(ctx, inbox.ID, true)
	if err != nil {
		t.Fatalf("list with trash: %v", err)
	}
	if len(trashed) != 1 || !trashed[0].Del || trashed[0].DelDate == nil {
		t.Fatalf("expected soft-deleted clip with del date, got %+v", trashed)
	}

	// Rows persist until purged.
	got, err := dbc.Clips().Get(ctx, clip.ID)
	if err != nil {
		t.Fatalf("get soft-deleted: %v", err)
	}
	if !got.Del {
		t.Fatal("expected del flag set")
	}
}

func TestHardDeleteCascades(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	clip := mustCreateClip(t, dbc, "cascade me", []models.Format{
		{Name: "CF_TEXT", Code: 1, StorageType: models.StorageText, Data: []byte("text")},
		{Name: "Binary", Code: 2, StorageType: models.StorageBinary, Data: []byte{1, 2, 3}},
	})

	if err := dbc.Clips().HardDelete(ctx, clip.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}

	count, err := dbc.ClipData().CountByClip(ctx, clip.ID)
	if err != nil {
		t.Fatalf("count clip data: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 clip_data rows after cascade, got %d", count)
	}

	for _, st := range []models.StorageType{models.StorageText, models.StorageJpeg, models.StoragePng, models.StorageBinary} {
		blobs, err := dbc.Blobs(st)
		if err != nil {
			t.Fatalf("blob repo: %v", err)
		}
		n, err := blobs.CountByClip(ctx, clip.ID)
		if err != nil {
			t.Fatalf("count blobs: %v", err)
		}
		if n != 0 {
			t.Fatalf("expected 0 %s blob rows after cascade, got %d", st, n)
		}
		orphans, err := blobs.OrphanCount(ctx)
		if err != nil {
			t.Fatalf("orphan count: %v", err)
		}
		if orphans != 0 {
			t.Fatalf("expected 0 orphan %s rows, got %d", st, orphans)
		}
	}
}

func TestPurge(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	clip := mustCreateClip(t, dbc, "old trash", textFormats("x"))
	if err := dbc.Clips().SoftDelete(ctx, clip.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	kept := mustCreateClip(t, dbc, "kept", textFormats("y"))

	n, err := dbc.Clips().Purge(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged clip, got %d", n)
	}

	if _, err := dbc.Clips().Get(ctx, clip.ID); !cliperr.IsKind(err, cliperr.KindNotFound) {
		t.Fatalf("expected NotFound after purge, got %v", err)
	}
	if _, err := dbc.Clips().Get(ctx, kept.ID); err != nil {
		t.Fatalf("kept clip should survive purge: %v", err)
	}
}

func TestUpdateClip(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	clip := mustCreateClip(t, dbc, "before", textFormats("x"))

	title := "after"
	fav := true
	if err := dbc.Clips().Update(ctx, clip.ID, ClipUpdate{Title: &title, IsFavorite: &fav}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := dbc.Clips().Get(ctx, clip.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "after" || !got.IsFavorite {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := dbc.Clips().Update(ctx, "missing", ClipUpdate{Title: &title}); !cliperr.IsKind(err, cliperr.KindNotFound) {
		t.Fatalf("expected NotFound for missing clip, got %v", err)
	}
}

func TestUpdatePayloadInPlace(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	clip := mustCreateClip(t, dbc, "editable", textFormats("original"))

	dataRows, err := dbc.ClipData().ListByClip(ctx, clip.ID)
	if err != nil {
		t.Fatalf("list clip data: %v", err)
	}

	blobs, err := dbc.Blobs(models.StorageText)
	if err != nil {
		t.Fatalf("blob repo: %v", err)
	}
	if err := blobs.UpdatePayload(ctx, dataRows[0].ID, []byte("edited")); err != nil {
		t.Fatalf("update payload: %v", err)
	}

	payload, err := blobs.PayloadByClipDataID(ctx, dataRows[0].ID)
	if err != nil {
		t.Fatalf("fetch payload: %v", err)
	}
	if !bytes.Equal(payload.Data, []byte("edited")) {
		t.Fatalf("payload not replaced: %q", payload.Data)
	}
}

func TestSearchClips(t *testing.T) {
	f := testFactory(t)
	dbc := testContext(t, f)
	ctx := context.Background()

	mustCreateClip(t, dbc, "Quarterly Report", textFormats("revenue is up"))
	mustCreateClip(t, dbc, "Shopping list", textFormats("milk, eggs, bread"))
	trashed := mustCreateClip(t, dbc, "Old report", textFormats("stale numbers"))
	if err := dbc.Clips().SoftDelete(ctx, trashed.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Title substring match.
	got, err := dbc.Clips().Search(ctx, "report", false)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Quarterly Report" {
		t.Fatalf("expected only the live report, got %+v", got)
	}

	// Text payload match.
	got, err = dbc.Clips().Search(ctx, "eggs", false)
	if err != nil {
		t.Fatalf("search payload: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Shopping list" {
		t.Fatalf("expected shopping list, got %+v", got)
	}

	// Prefix wildcard and OR terms.
	got, err = dbc.Clips().Search(ctx, "quart*,nonsense", false)
	if err != nil {
		t.Fatalf("search wildcard: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 wildcard match, got %+v", got)
	}

	// Trash included on request.
	got, err = dbc.Clips().Search(ctx, "report", true)
	if err != nil {
		t.Fatalf("search with trash: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches including trash, got %+v", got)
	}
}
