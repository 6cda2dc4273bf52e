package transfer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
	"clipvault/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Factory) {
	t.Helper()
	dir := t.TempDir()
	factory := store.NewFactory(map[string]string{
		"source": filepath.Join(dir, "source.db"),
		"target": filepath.Join(dir, "target.db"),
	})
	return NewService(factory), factory
}

func seedClip(t *testing.T, factory *store.Factory, key, title string) *models.Clip {
	t.Helper()
	dbc, err := factory.CreateContext(key)
	require.NoError(t, err)
	defer dbc.Close()

	clip := &models.Clip{Title: title, Type: models.ClipTypeText, Creator: "tester"}
	formats := []models.Format{
		{Name: "CF_TEXT", Code: 1, StorageType: models.StorageText, Data: []byte("text payload")},
		{Name: "PNG", Code: 49352, StorageType: models.StoragePng, Data: []byte{0x89, 0x50, 0x4e, 0x47, 0x0d}},
	}
	require.NoError(t, dbc.Clips().Create(context.Background(), clip, formats))
	return clip
}

func readPayloads(t *testing.T, factory *store.Factory, key, clipID string) map[string][]byte {
	t.Helper()
	dbc, err := factory.CreateContext(key)
	require.NoError(t, err)
	defer dbc.Close()

	ctx := context.Background()
	dataRows, err := dbc.ClipData().ListByClip(ctx, clipID)
	require.NoError(t, err)

	payloads := map[string][]byte{}
	for _, row := range dataRows {
		blobs, err := dbc.Blobs(row.StorageType)
		require.NoError(t, err)
		p, err := blobs.PayloadByClipDataID(ctx, row.ID)
		require.NoError(t, err)
		payloads[row.FormatName] = p.Data
	}
	return payloads
}

func TestCopyWithinOneDatabase(t *testing.T) {
	svc, factory := newTestService(t)
	ctx := context.Background()
	clip := seedClip(t, factory, "source", "original")

	result, err := svc.Copy(ctx, "source", "source", clip.ID, "col-1", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.ClipID)
	assert.NotEqual(t, clip.ID, result.ClipID, "copy must mint a fresh identity")
	assert.False(t, result.SourceRemoved)

	original := readPayloads(t, factory, "source", clip.ID)
	clone := readPayloads(t, factory, "source", result.ClipID)
	assert.Equal(t, original, clone, "clone payloads must be byte-identical per format")

	dbc, err := factory.CreateContext("source")
	require.NoError(t, err)
	defer dbc.Close()
	cloned, err := dbc.Clips().Get(ctx, result.ClipID)
	require.NoError(t, err)
	assert.Equal(t, "col-1", cloned.CollectionID)
	assert.Equal(t, clip.ContentHash, cloned.ContentHash)
}

func TestMoveWithinOneDatabase(t *testing.T) {
	svc, factory := newTestService(t)
	ctx := context.Background()
	clip := seedClip(t, factory, "source", "movable")

	result, err := svc.Move(ctx, "source", "source", clip.ID, "col-9", "folder-2")
	require.NoError(t, err)
	assert.Equal(t, clip.ID, result.ClipID, "same-database move keeps identity")
	assert.True(t, result.SourceRemoved)

	dbc, err := factory.CreateContext("source")
	require.NoError(t, err)
	defer dbc.Close()
	moved, err := dbc.Clips().Get(ctx, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "col-9", moved.CollectionID)
	assert.Equal(t, "folder-2", moved.FolderID)
}

func TestCrossDatabaseCopy(t *testing.T) {
	svc, factory := newTestService(t)
	ctx := context.Background()
	clip := seedClip(t, factory, "source", "shared")

	result, err := svc.Copy(ctx, "source", "target", clip.ID, "", "")
	require.NoError(t, err)
	require.NotEqual(t, clip.ID, result.ClipID)

	// Source still contains the original.
	srcCtx, err := factory.CreateContext("source")
	require.NoError(t, err)
	defer srcCtx.Close()
	_, err = srcCtx.Clips().Get(ctx, clip.ID)
	require.NoError(t, err)

	// Target contains a byte-identical clone under the new identity.
	original := readPayloads(t, factory, "source", clip.ID)
	clone := readPayloads(t, factory, "target", result.ClipID)
	assert.Equal(t, original, clone)
}

func TestCrossDatabaseMove(t *testing.T) {
	svc, factory := newTestService(t)
	ctx := context.Background()
	clip := seedClip(t, factory, "source", "migrating")
	original := readPayloads(t, factory, "source", clip.ID)

	result, err := svc.Move(ctx, "source", "target", clip.ID, "", "")
	require.NoError(t, err)
	assert.True(t, result.SourceRemoved)

	// Source no longer contains the clip.
	srcCtx, err := factory.CreateContext("source")
	require.NoError(t, err)
	defer srcCtx.Close()
	_, err = srcCtx.Clips().Get(ctx, clip.ID)
	assert.True(t, cliperr.IsKind(err, cliperr.KindNotFound))

	// Target holds the clone with identical payloads.
	clone := readPayloads(t, factory, "target", result.ClipID)
	assert.Equal(t, original, clone)
}

func TestMoveMissingClip(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Move(context.Background(), "source", "target", "no-such-clip", "", "")
	assert.True(t, cliperr.IsKind(err, cliperr.KindNotFound))
}

func TestTargetFailureLeavesSourceUntouched(t *testing.T) {
	svc, factory := newTestService(t)
	ctx := context.Background()
	clip := seedClip(t, factory, "source", "survivor")

	// An unopenable target path fails the copy phase.
	_, err := svc.Move(ctx, "source", filepath.Join(t.TempDir(), "missing", "nested", "bad.db"), clip.ID, "", "")
	require.Error(t, err)

	srcCtx, err := factory.CreateContext("source")
	require.NoError(t, err)
	defer srcCtx.Close()
	_, err = srcCtx.Clips().Get(ctx, clip.ID)
	assert.NoError(t, err, "source must be untouched when the target write fails")
}

func TestCancelledMoveDoesNotDeleteSource(t *testing.T) {
	svc, factory := newTestService(t)
	clip := seedClip(t, factory, "source", "interrupted")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Move(cancelled, "source", "target", clip.ID, "", "")
	require.Error(t, err)

	srcCtx, err := factory.CreateContext("source")
	require.NoError(t, err)
	defer srcCtx.Close()
	_, err = srcCtx.Clips().Get(context.Background(), clip.ID)
	assert.NoError(t, err, "cancellation must not remove the source clip")
}

func TestTargets(t *testing.T) {
	svc, factory := newTestService(t)
	ctx := context.Background()

	seedClip(t, factory, "source", "a")
	seedClip(t, factory, "target", "b")

	dbc, err := factory.CreateContext("target")
	require.NoError(t, err)
	require.NoError(t, dbc.Collections().Create(ctx, &models.Collection{Title: "Inbox", Role: models.RoleInbox}))
	dbc.Close()

	targets, err := svc.Targets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	var targetEntry *Target
	for i := range targets {
		if filepath.Base(targets[i].Path) == "target.db" {
			targetEntry = &targets[i]
		}
	}
	require.NotNil(t, targetEntry)
	assert.Len(t, targetEntry.Collections, 1)
}
