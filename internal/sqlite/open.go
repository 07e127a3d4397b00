package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/llmatic/internal/repository"
)

// Open creates the parent directory of path if needed, connects, and applies
// the schema. It is meant to be called once by the process entry point.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, err
	}

	db, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == "" || path == MemoryDSN || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w: %w", repository.ErrStorageUnavailable, err)
	}
	return nil
}
