package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"clipvault/internal/models"
)

const (
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute
)

// DBContext is a short-lived handle on one database file. Every operation
// gets its own; handles are never shared between concurrent operations and
// must be closed at the end of the operation's scope.
type DBContext struct {
	db   *sql.DB
	path string
}

// Path returns the resolved database file path this handle is bound to.
func (c *DBContext) Path() string {
	return c.path
}

// Close releases the handle.
func (c *DBContext) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clips returns a clip repository bound to this handle.
func (c *DBContext) Clips() *ClipRepository {
	return &ClipRepository{dbc: c}
}

// ClipData returns a clip-data repository bound to this handle.
func (c *DBContext) ClipData() *ClipDataRepository {
	return &ClipDataRepository{dbc: c}
}

// Blobs returns the blob repository for one storage class, bound to this handle.
func (c *DBContext) Blobs(storageType models.StorageType) (*BlobRepository, error) {
	return newBlobRepository(c, storageType)
}

// Collections returns a collection repository bound to this handle.
func (c *DBContext) Collections() *CollectionRepository {
	return &CollectionRepository{dbc: c}
}

// Shortcuts returns a shortcut repository bound to this handle.
func (c *DBContext) Shortcuts() *ShortcutRepository {
	return &ShortcutRepository{dbc: c}
}

// openContext opens a fresh handle on path and bootstraps the schema.
func openContext(path string) (*DBContext, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}

	configurePool(db)
	if err := bootstrapSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DBContext{db: db, path: path}, nil
}

// configurePool bounds the pool to a single connection: writes stay
// serialized and the predicate registered at open time is the one every
// query runs on. Pragmas are not applied here; they live in the DSN
// (dsnQuery) so recycled connections keep them too.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path, RawQuery: dsnQuery}
	return u.String(), nil
}
