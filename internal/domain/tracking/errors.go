package tracking

import (
	"errors"
	"fmt"

	"github.com/rpggio/llmatic/internal/repository"
)

var (
	// ErrInvalidArgument indicates malformed identifiers, scale or other input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState indicates an operation attempted in the wrong session state.
	ErrInvalidState = errors.New("invalid session state")
	// ErrMetricsUnavailable indicates the metrics provider failed or returned invalid data.
	ErrMetricsUnavailable = errors.New("metrics unavailable")
	// ErrMalformedResponse indicates the response lacks a first-choice text field.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEvaluationUnavailable indicates no score could be obtained for an evaluation.
	ErrEvaluationUnavailable = errors.New("evaluation unavailable")
	// ErrRecordNotFound indicates no tracking record matched.
	ErrRecordNotFound = errors.New("record not found")
	// ErrStorageUnavailable indicates the store failed an I/O operation.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSchema indicates the store schema could not be created or does not match.
	ErrSchema = errors.New("schema error")
)

// StoreError maps a repository error to the tracking error taxonomy.
func StoreError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrRecordNotFound)
	case errors.Is(err, repository.ErrSchema):
		return fmt.Errorf("%s: %w: %w", op, ErrSchema, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
}

// Kind returns the taxonomy name of err, or "Internal" for unclassified errors.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgument"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrMetricsUnavailable):
		return "MetricsUnavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "MalformedResponse"
	case errors.Is(err, ErrEvaluationUnavailable):
		return "EvaluationUnavailable"
	case errors.Is(err, ErrRecordNotFound):
		return "RecordNotFound"
	case errors.Is(err, ErrSchema):
		return "SchemaError"
	case errors.Is(err, ErrStorageUnavailable):
		return "StorageUnavailable"
	default:
		return "Internal"
	}
}
