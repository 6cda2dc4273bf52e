//go:build !cgosqlite

package store

// Default build: pure Go SQLite via modernc.org/sqlite, no C compiler needed.
//
// The clip_match predicate is registered with the driver as a deterministic
// scalar function before any handle is opened, so every connection the
// factory creates sees it.

import (
	"database/sql/driver"
	"fmt"

	sqlite "modernc.org/sqlite"

	"clipvault/internal/search"
)

// DriverName is the database/sql driver the factory opens handles with.
const DriverName = "sqlite"

// dsnQuery carries the per-connection pragmas in the DSN so every connection
// the pool opens gets them, including recycled ones. busy_timeout comes
// first: the WAL switch itself takes the file lock and must already wait
// instead of failing with SQLITE_BUSY under concurrent opens.
const dsnQuery = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("clip_match", 2, clipMatchFunc)
}

func clipMatchFunc(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	value, query, err := clipMatchArgs(args)
	if err != nil {
		return nil, err
	}
	if search.Match(value, query) {
		return int64(1), nil
	}
	return int64(0), nil
}

func clipMatchArgs(args []driver.Value) (string, string, error) {
	value := textArg(args[0])
	query, ok := args[1].(string)
	if !ok {
		return "", "", fmt.Errorf("clip_match: query must be text")
	}
	return value, query, nil
}

// textArg coerces a column value to the string the predicate matches
// against. NULLs and non-text values yield "", which never matches.
func textArg(v driver.Value) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return ""
	}
}
