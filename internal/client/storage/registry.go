package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const dbExt = ".db"

// DatabaseRegistry enumerates and drops the app's structured databases.
type DatabaseRegistry interface {
	Names(ctx context.Context) ([]string, error)
	Drop(ctx context.Context, name string) error
}

// FileRegistry keeps each database as <dir>/<name>.db.
type FileRegistry struct {
	dir string
}

func NewFileRegistry(dir string) *FileRegistry {
	return &FileRegistry{dir: dir}
}

func (r *FileRegistry) path(name string) string {
	return filepath.Join(r.dir, name+dbExt)
}

// Open creates the directory if needed and opens a migrated database.
func (r *FileRegistry) Open(ctx context.Context, name string) (*sql.DB, error) {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.dir, err)
	}
	return OpenSQLite(ctx, r.path(name))
}

func (r *FileRegistry) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), dbExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), dbExt))
	}
	sort.Strings(names)
	return names, nil
}

// Drop removes the database file and its journal siblings.
func (r *FileRegistry) Drop(_ context.Context, name string) error {
	p := r.path(name)
	for _, f := range []string{p, p + "-wal", p + "-shm", p + "-journal"} {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
