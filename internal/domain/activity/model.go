package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTrackingCompleted  ActivityType = "tracking_completed"
	TypeEvaluationRecorded ActivityType = "evaluation_recorded"
	TypeTrackingDeleted    ActivityType = "tracking_deleted"
	TypeProjectDeleted     ActivityType = "project_deleted"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeTrackingCompleted, TypeEvaluationRecorded, TypeTrackingDeleted, TypeProjectDeleted:
		return true
	default:
		return false
	}
}

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id"`
	TrackingID   *string      `json:"tracking_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
