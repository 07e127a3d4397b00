package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable is returned when the underlying store fails an I/O operation
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrSchema is returned when the store schema cannot be created or does not match
	ErrSchema = errors.New("schema error")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
