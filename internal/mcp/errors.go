package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/tracking"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unclassified errors map
// to INTERNAL.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, tracking.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: err.Error(), RecoveryHint: "Check project_id and tracking_id with list_projects and get_summary"}
	case errors.Is(err, tracking.ErrInvalidArgument), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error(), RecoveryHint: "Provide non-empty identifiers"}
	case errors.Is(err, tracking.ErrSchema):
		return &APIError{Code: "SCHEMA_ERROR", Message: err.Error(), RecoveryHint: "The store schema does not match; restart against a valid database"}
	case errors.Is(err, tracking.ErrStorageUnavailable):
		return &APIError{Code: "STORAGE_UNAVAILABLE", Message: err.Error(), RecoveryHint: "Retry the request"}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
