package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	cliperr "clipvault/internal/errors"
	"clipvault/internal/models"
)

const maxNicknameLength = 64

// ShortcutRepository maps unique nicknames to clips. Files created before
// shortcuts existed lack the table; every write/read path recovers from
// that locally by creating the table and retrying once.
type ShortcutRepository struct {
	dbc *DBContext
}

// Close releases the underlying handle.
func (r *ShortcutRepository) Close() error {
	return r.dbc.Close()
}

// Set creates or replaces a nickname for a clip.
func (r *ShortcutRepository) Set(ctx context.Context, nickname, clipID string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return cliperr.NewValidation("nickname is required")
	}
	if len(nickname) > maxNicknameLength {
		return cliperr.NewValidation(fmt.Sprintf("nickname exceeds %d characters", maxNicknameLength))
	}

	clips := r.dbc.Clips()
	clip, err := clips.Get(ctx, clipID)
	if err != nil {
		return err
	}

	return r.withSchemaRetry(func() error {
		_, err := r.dbc.db.ExecContext(ctx, `
			INSERT INTO shortcuts (nickname, clip_id, clip_guid) VALUES (?, ?, ?)
			ON CONFLICT(nickname) DO UPDATE SET clip_id = excluded.clip_id, clip_guid = excluded.clip_guid
		`, nickname, clip.ID, clip.ID)
		return err
	})
}

// Resolve returns the shortcut registered under nickname.
func (r *ShortcutRepository) Resolve(ctx context.Context, nickname string) (*models.Shortcut, error) {
	var sc models.Shortcut
	var guid sql.NullString

	err := r.withSchemaRetry(func() error {
		return r.dbc.db.QueryRowContext(ctx,
			"SELECT nickname, clip_id, clip_guid FROM shortcuts WHERE nickname = ?", nickname,
		).Scan(&sc.Nickname, &sc.ClipID, &guid)
	})
	if err == sql.ErrNoRows {
		return nil, cliperr.NewNotFound("shortcut", nickname)
	}
	if err != nil {
		return nil, err
	}
	sc.ClipGuid = guid.String
	return &sc, nil
}

// Delete removes a nickname.
func (r *ShortcutRepository) Delete(ctx context.Context, nickname string) error {
	return r.withSchemaRetry(func() error {
		res, err := r.dbc.db.ExecContext(ctx, "DELETE FROM shortcuts WHERE nickname = ?", nickname)
		if err != nil {
			return err
		}
		return requireRow(res, "shortcut", nickname)
	})
}

// List returns all shortcuts ordered by nickname.
func (r *ShortcutRepository) List(ctx context.Context) ([]models.Shortcut, error) {
	var shortcuts []models.Shortcut
	err := r.withSchemaRetry(func() error {
		rows, err := r.dbc.db.QueryContext(ctx,
			"SELECT nickname, clip_id, clip_guid FROM shortcuts ORDER BY nickname ASC")
		if err != nil {
			return err
		}
		defer rows.Close()

		shortcuts = shortcuts[:0]
		for rows.Next() {
			var sc models.Shortcut
			var guid sql.NullString
			if err := rows.Scan(&sc.Nickname, &sc.ClipID, &guid); err != nil {
				return err
			}
			sc.ClipGuid = guid.String
			shortcuts = append(shortcuts, sc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return shortcuts, nil
}

// withSchemaRetry runs op; on a missing-table failure it creates the
// shortcuts schema and retries exactly once. Recovery is not surfaced to
// the caller when it succeeds.
func (r *ShortcutRepository) withSchemaRetry(op func() error) error {
	err := op()
	if err == nil || !isMissingTable(err) {
		return err
	}

	slog.Debug("shortcuts table missing, creating", "path", r.dbc.path)
	if schemaErr := bootstrapShortcutSchema(r.dbc.db); schemaErr != nil {
		return cliperr.NewSchemaMissing("shortcuts", schemaErr)
	}
	return op()
}

func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") && strings.Contains(msg, "shortcuts")
}
