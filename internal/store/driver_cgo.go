//go:build cgosqlite

package store

// CGO build: github.com/mattn/go-sqlite3.
//
// Build command:
//   CGO_ENABLED=1 go build -tags cgosqlite ./...
//
// The ConnectHook runs for every raw connection the pool opens, so the
// clip_match predicate is re-registered on each new handle rather than once
// per file. Handles are never cached across operations (see factory.go), so
// this keeps registration connection-scoped.

import (
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"

	"clipvault/internal/search"
)

// DriverName is the database/sql driver the factory opens handles with.
const DriverName = "sqlite3_clipvault"

// dsnQuery carries the per-connection pragmas in the DSN so every connection
// the pool opens gets them, including recycled ones. busy_timeout comes
// first: the WAL switch itself takes the file lock and must already wait
// instead of failing with SQLITE_BUSY under concurrent opens.
const dsnQuery = "_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"

// clipMatch tolerates NULL and blob column values; they never match.
func clipMatch(value any, query string) bool {
	switch v := value.(type) {
	case string:
		return search.Match(v, query)
	case []byte:
		return search.Match(string(v), query)
	default:
		return false
	}
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("clip_match", clipMatch, true)
		},
	})
}
