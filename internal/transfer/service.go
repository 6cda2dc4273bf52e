// Package transfer moves and copies clips within one database file or across
// two independently opened files. There is no cross-file transaction: a
// cross-database move is a committed copy followed by a committed delete,
// and the window between the two commits is documented, detectable and not
// auto-reconciled.
package transfer

import (
	"context"
	"fmt"
	"log/slog"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
	"clipvault/internal/store"
)

// Service orchestrates copy/move operations. Every operation acquires fresh
// handles from the factory and releases them before returning.
type Service struct {
	factory *store.Factory
}

// NewService creates a transfer service over the given factory.
func NewService(factory *store.Factory) *Service {
	return &Service{factory: factory}
}

// Result reports the outcome of a copy or move.
type Result struct {
	// ClipID is the id of the clip in the target database. Same as the
	// input id for a same-database move, a fresh id otherwise.
	ClipID string `json:"clip_id"`
	// SourceRemoved reports whether the original was deleted (moves only).
	SourceRemoved bool `json:"source_removed"`
}

// Copy duplicates a clip into targetKey's collection/folder. The source is
// never modified. When source and target resolve to the same file the clone
// is written through the same handle; otherwise the full row graph is read
// from the source and written into the target in one transaction.
func (s *Service) Copy(ctx context.Context, sourceKey, targetKey, clipID, collectionID, folderID string) (Result, error) {
	sourcePath, targetPath, same, err := s.resolvePair(sourceKey, targetKey)
	if err != nil {
		return Result{}, err
	}

	srcCtx, err := s.factory.CreateContext(sourcePath)
	if err != nil {
		return Result{}, err
	}
	defer srcCtx.Close()

	clip, formats, err := ReadClipGraph(ctx, srcCtx, clipID)
	if err != nil {
		return Result{}, err
	}

	dstCtx := srcCtx
	if !same {
		dstCtx, err = s.factory.CreateContext(targetPath)
		if err != nil {
			return Result{}, err
		}
		defer dstCtx.Close()
	}

	clone := cloneHeader(clip, collectionID, folderID)
	if err := dstCtx.Clips().Create(ctx, clone, formats); err != nil {
		return Result{}, fmt.Errorf("write clone: %w", err)
	}

	slog.Info("clip copied",
		"clip", clipID, "clone", clone.ID, "source", sourcePath, "target", targetPath)
	return Result{ClipID: clone.ID}, nil
}

// Move relocates a clip. Within one file this repoints the header's
// collection/folder and keeps the identity. Across files it copies first
// and deletes the original only after the target commit succeeded; if the
// delete then fails, the clip exists in both files and the error carries
// kind TRANSFER_PARTIAL alongside a Result naming the surviving clone.
func (s *Service) Move(ctx context.Context, sourceKey, targetKey, clipID, collectionID, folderID string) (Result, error) {
	sourcePath, targetPath, same, err := s.resolvePair(sourceKey, targetKey)
	if err != nil {
		return Result{}, err
	}

	if same {
		srcCtx, err := s.factory.CreateContext(sourcePath)
		if err != nil {
			return Result{}, err
		}
		defer srcCtx.Close()

		if err := srcCtx.Clips().Move(ctx, clipID, collectionID, folderID); err != nil {
			return Result{}, err
		}
		return Result{ClipID: clipID, SourceRemoved: true}, nil
	}

	// Phase one: copy. The source is untouched, so a failure here is safe.
	result, err := s.Copy(ctx, sourcePath, targetPath, clipID, collectionID, folderID)
	if err != nil {
		return Result{}, err
	}

	// Phase two: delete the original. The target commit is never undone
	// from here on, including on cancellation.
	if err := s.deleteSource(ctx, sourcePath, clipID); err != nil {
		slog.Error("cross-database move left clip in both files",
			"clip", clipID, "clone", result.ClipID, "source", sourcePath, "target", targetPath, "error", err)
		return result, cliperr.NewTransferPartial(clipID, sourcePath, targetPath, err)
	}

	result.SourceRemoved = true
	slog.Info("clip moved",
		"clip", clipID, "clone", result.ClipID, "source", sourcePath, "target", targetPath)
	return result, nil
}

func (s *Service) deleteSource(ctx context.Context, sourcePath, clipID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	srcCtx, err := s.factory.CreateContext(sourcePath)
	if err != nil {
		return err
	}
	defer srcCtx.Close()
	return srcCtx.Clips().HardDelete(ctx, clipID)
}

// Target describes one loaded database as a copy/move destination.
type Target struct {
	Path        string              `json:"path"`
	Collections []models.Collection `json:"collections"`
}

// Targets enumerates every loaded database with its collections. Databases
// are visited sequentially, one short-lived handle at a time, so the number
// of open file descriptors stays bounded.
func (s *Service) Targets(ctx context.Context) ([]Target, error) {
	var targets []Target
	for _, path := range s.factory.LoadedDatabasePaths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target, err := s.loadTarget(ctx, path)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (s *Service) loadTarget(ctx context.Context, path string) (Target, error) {
	dbc, err := s.factory.CreateContext(path)
	if err != nil {
		return Target{}, err
	}
	defer dbc.Close()

	collections, err := dbc.Collections().List(ctx)
	if err != nil {
		return Target{}, err
	}
	return Target{Path: path, Collections: collections}, nil
}

func (s *Service) resolvePair(sourceKey, targetKey string) (sourcePath, targetPath string, same bool, err error) {
	sourcePath, err = s.factory.ResolvePath(sourceKey)
	if err != nil {
		return "", "", false, err
	}
	targetPath, err = s.factory.ResolvePath(targetKey)
	if err != nil {
		return "", "", false, err
	}
	return sourcePath, targetPath, sourcePath == targetPath, nil
}

// ReadClipGraph loads a clip header with all its formats and payloads.
func ReadClipGraph(ctx context.Context, dbc *store.DBContext, clipID string) (*models.Clip, []models.Format, error) {
	clip, err := dbc.Clips().Get(ctx, clipID)
	if err != nil {
		return nil, nil, err
	}

	dataRows, err := dbc.ClipData().ListByClip(ctx, clipID)
	if err != nil {
		return nil, nil, err
	}

	// One batch fetch per storage class present, keyed by clip_data id.
	payloads := map[string]models.Payload{}
	seen := map[models.StorageType]bool{}
	for _, row := range dataRows {
		if seen[row.StorageType] {
			continue
		}
		seen[row.StorageType] = true

		blobs, err := dbc.Blobs(row.StorageType)
		if err != nil {
			return nil, nil, err
		}
		fetched, err := blobs.PayloadsByClipIDs(ctx, []string{clipID})
		if err != nil {
			return nil, nil, err
		}
		for id, p := range fetched {
			payloads[id] = p
		}
	}

	formats := make([]models.Format, 0, len(dataRows))
	for _, row := range dataRows {
		payload, ok := payloads[row.ID]
		if !ok {
			return nil, nil, cliperr.NewInternal(
				fmt.Errorf("clip_data %s has no %s payload", row.ID, row.StorageType))
		}
		formats = append(formats, models.Format{
			Name:        row.FormatName,
			Code:        row.Format,
			StorageType: row.StorageType,
			Data:        payload.Data,
		})
	}
	return clip, formats, nil
}

// cloneHeader builds the clone's header: fresh identity, requested target
// collection/folder, everything else carried over.
func cloneHeader(clip *models.Clip, collectionID, folderID string) *models.Clip {
	clone := *clip
	clone.ID = store.NewID()
	clone.CollectionID = collectionID
	clone.FolderID = folderID
	clone.Del = false
	clone.DelDate = nil
	return &clone
}
