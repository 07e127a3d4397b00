package project

import (
	"context"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/tracking"
)

// Repository provides read and delete access to stored tracking records.
type Repository interface {
	ListProjects(ctx context.Context) ([]string, error)
	GetLatest(ctx context.Context, projectID, trackingID string) (*tracking.Record, error)
	ListByProject(ctx context.Context, projectID string) ([]tracking.Record, error)
	DeleteProject(ctx context.Context, projectID string) (int64, error)
	DeleteTracking(ctx context.Context, projectID, trackingID string) (int64, error)
}

// ActivityRepository logs lifecycle events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
