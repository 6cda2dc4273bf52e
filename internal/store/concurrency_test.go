package store

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"clipvault/internal/models"
)

func TestParallelOperationsOnDifferentFiles(t *testing.T) {
	f := testFactory(t)

	var g errgroup.Group
	for _, alias := range []string{"main", "other"} {
		alias := alias
		g.Go(func() error {
			for i := 0; i < 20; i++ {
				dbc, err := f.CreateContext(alias)
				if err != nil {
					return err
				}
				clip := &models.Clip{Title: fmt.Sprintf("%s-%d", alias, i), Type: models.ClipTypeText}
				err = dbc.Clips().Create(context.Background(), clip, textFormats("payload"))
				dbc.Close()
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("parallel writers on different files: %v", err)
	}
}

func TestConcurrentWritersSameFile(t *testing.T) {
	f := testFactory(t)
	const writers = 8
	const perWriter = 5

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				// Each write takes its own short-lived handle; SQLite's
				// file locking serializes them.
				dbc, err := f.CreateContext("main")
				if err != nil {
					return err
				}
				clip := &models.Clip{Title: fmt.Sprintf("w%d-%d", w, i), Type: models.ClipTypeText}
				err = dbc.Clips().Create(context.Background(), clip, textFormats("x"))
				dbc.Close()
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent writers: %v", err)
	}

	// Post-hoc row-count consistency: header, metadata and payload counts
	// all line up.
	dbc := testContext(t, f)
	ctx := context.Background()

	clips, err := dbc.Clips().ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clips) != writers*perWriter {
		t.Fatalf("expected %d clips, got %d", writers*perWriter, len(clips))
	}

	var dataCount int
	if err := dbc.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clip_data").Scan(&dataCount); err != nil {
		t.Fatalf("count clip_data: %v", err)
	}
	var blobCount int
	if err := dbc.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blob_text").Scan(&blobCount); err != nil {
		t.Fatalf("count blob_text: %v", err)
	}
	if dataCount != writers*perWriter || blobCount != writers*perWriter {
		t.Fatalf("row counts inconsistent: %d clip_data, %d blob_text", dataCount, blobCount)
	}
}
