package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Factory resolves database aliases to file paths and opens short-lived,
// uncached handles. It never caches or pools handles across CreateContext
// calls; concurrency safety comes from each operation owning its own handle
// and from SQLite's own file-level locking.
type Factory struct {
	aliases map[string]string

	mu     sync.Mutex
	loaded map[string]struct{}
}

// NewFactory creates a factory over the configured alias -> path mapping.
func NewFactory(aliases map[string]string) *Factory {
	copied := make(map[string]string, len(aliases))
	for alias, path := range aliases {
		copied[alias] = path
	}
	return &Factory{
		aliases: copied,
		loaded:  map[string]struct{}{},
	}
}

// CreateContext resolves pathOrAlias and opens a fresh handle on it. The
// caller owns the handle and must Close it at the end of the operation.
func (f *Factory) CreateContext(pathOrAlias string) (*DBContext, error) {
	path, err := f.ResolvePath(pathOrAlias)
	if err != nil {
		return nil, err
	}

	dbc, err := openContext(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	f.RegisterDatabase(path)
	return dbc, nil
}

// ResolvePath resolves an alias or literal path to a database file path.
// Anything containing a path separator is taken literally; an unknown alias
// falls back to a literal path with a warning, not an error.
func (f *Factory) ResolvePath(pathOrAlias string) (string, error) {
	trimmed := strings.TrimSpace(pathOrAlias)
	if trimmed == "" {
		return "", fmt.Errorf("database alias or path is required")
	}

	if strings.ContainsAny(trimmed, `/\`) {
		return filepath.Clean(trimmed), nil
	}

	if path, ok := f.aliases[trimmed]; ok {
		return filepath.Clean(path), nil
	}

	slog.Warn("unknown database alias, treating as literal path", "alias", trimmed)
	return filepath.Clean(trimmed), nil
}

// RegisterDatabase marks a path as loaded without opening a handle.
func (f *Factory) RegisterDatabase(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded[path] = struct{}{}
}

// CloseDatabase unregisters a path and reports whether it was registered.
// Any handle already open on the path is unaffected; its owner closes it.
func (f *Factory) CloseDatabase(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.loaded[path]; !ok {
		return false
	}
	delete(f.loaded, path)
	return true
}

// LoadedDatabasePaths returns the registered paths in sorted order.
func (f *Factory) LoadedDatabasePaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := make([]string, 0, len(f.loaded))
	for path := range f.loaded {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ClipRepository opens a fresh handle on databaseKey and binds a clip
// repository to it. Closing the repository closes the handle.
func (f *Factory) ClipRepository(databaseKey string) (*ClipRepository, error) {
	dbc, err := f.CreateContext(databaseKey)
	if err != nil {
		return nil, err
	}
	return dbc.Clips(), nil
}

// CollectionRepository opens a fresh handle on databaseKey and binds a
// collection repository to it.
func (f *Factory) CollectionRepository(databaseKey string) (*CollectionRepository, error) {
	dbc, err := f.CreateContext(databaseKey)
	if err != nil {
		return nil, err
	}
	return dbc.Collections(), nil
}

// ShortcutRepository opens a fresh handle on databaseKey and binds a
// shortcut repository to it.
func (f *Factory) ShortcutRepository(databaseKey string) (*ShortcutRepository, error) {
	dbc, err := f.CreateContext(databaseKey)
	if err != nil {
		return nil, err
	}
	return dbc.Shortcuts(), nil
}
