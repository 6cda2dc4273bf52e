package store

import "database/sql"

// The four-way blob table split by storage class is a compatibility boundary:
// existing files are laid out this way and must stay readable.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  parent_id TEXT,
  role TEXT NOT NULL DEFAULT 'custom',
  max_bytes INTEGER NOT NULL DEFAULT 0,
  max_age_days INTEGER NOT NULL DEFAULT 0,
  sort_key INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS clips (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  creator TEXT,
  source_url TEXT,
  captured_at TEXT NOT NULL,
  type TEXT NOT NULL,
  content_hash TEXT,
  collection_id TEXT,
  folder_id TEXT,
  is_favorite INTEGER NOT NULL DEFAULT 0,
  del INTEGER NOT NULL DEFAULT 0,
  del_date TEXT,
  sort_key INTEGER NOT NULL DEFAULT 0,
  checksum TEXT
);

CREATE TABLE IF NOT EXISTS clip_data (
  id TEXT PRIMARY KEY,
  clip_id TEXT NOT NULL,
  format_name TEXT NOT NULL,
  format INTEGER NOT NULL DEFAULT 0,
  storage_type TEXT NOT NULL,
  size INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY (clip_id) REFERENCES clips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS blob_text (
  id TEXT PRIMARY KEY,
  clip_data_id TEXT NOT NULL,
  clip_id TEXT NOT NULL,
  payload TEXT,
  FOREIGN KEY (clip_data_id) REFERENCES clip_data(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS blob_jpeg (
  id TEXT PRIMARY KEY,
  clip_data_id TEXT NOT NULL,
  clip_id TEXT NOT NULL,
  payload BLOB,
  FOREIGN KEY (clip_data_id) REFERENCES clip_data(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS blob_png (
  id TEXT PRIMARY KEY,
  clip_data_id TEXT NOT NULL,
  clip_id TEXT NOT NULL,
  payload BLOB,
  FOREIGN KEY (clip_data_id) REFERENCES clip_data(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS blob_binary (
  id TEXT PRIMARY KEY,
  clip_data_id TEXT NOT NULL,
  clip_id TEXT NOT NULL,
  payload BLOB,
  FOREIGN KEY (clip_data_id) REFERENCES clip_data(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_clips_collection ON clips(collection_id, del, sort_key);
CREATE INDEX IF NOT EXISTS idx_clips_folder ON clips(folder_id, del);
CREATE INDEX IF NOT EXISTS idx_clips_captured ON clips(captured_at DESC);
CREATE INDEX IF NOT EXISTS idx_clip_data_clip ON clip_data(clip_id, format_name);
CREATE INDEX IF NOT EXISTS idx_blob_text_clip ON blob_text(clip_id);
CREATE INDEX IF NOT EXISTS idx_blob_jpeg_clip ON blob_jpeg(clip_id);
CREATE INDEX IF NOT EXISTS idx_blob_png_clip ON blob_png(clip_id);
CREATE INDEX IF NOT EXISTS idx_blob_binary_clip ON blob_binary(clip_id);
CREATE INDEX IF NOT EXISTS idx_collections_parent ON collections(parent_id);
`

// shortcutSchemaSQL is kept separate: older files predate the shortcuts table
// and the repository recreates it on demand (see ShortcutRepository.withSchemaRetry).
const shortcutSchemaSQL = `
CREATE TABLE IF NOT EXISTS shortcuts (
  nickname TEXT PRIMARY KEY,
  clip_id TEXT NOT NULL,
  clip_guid TEXT,
  FOREIGN KEY (clip_id) REFERENCES clips(id) ON DELETE CASCADE
);
`

func bootstrapSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}

func bootstrapShortcutSchema(db *sql.DB) error {
	_, err := db.Exec(shortcutSchemaSQL)
	return err
}
