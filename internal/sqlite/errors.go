package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/llmatic/internal/repository"
)

func isSchemaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "has no column named")
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// storageError classifies a driver error for the caller.
func storageError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrSchema):
		return err
	case isSchemaError(err):
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrSchema, err)
	case isBusy(err):
		return fmt.Errorf("failed to %s: database busy: %w: %w", op, repository.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("failed to %s: %w: %w", op, repository.ErrStorageUnavailable, err)
	}
}
