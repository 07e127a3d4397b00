package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/tracking"
)

// Service is the read-side façade over the tracking store.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new project service. activities may be nil.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activities: activities, logger: logger}
}

// ListProjects returns every project id with at least one record.
func (s *Service) ListProjects(ctx context.Context) ([]string, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, tracking.StoreError("listing projects", err)
	}
	if projects == nil {
		projects = []string{}
	}
	return projects, nil
}

// GetRecord returns the latest record for a tracking id.
func (s *Service) GetRecord(ctx context.Context, projectID, trackingID string) (*tracking.Record, error) {
	if err := requireIDs(projectID, trackingID); err != nil {
		return nil, err
	}
	rec, err := s.repo.GetLatest(ctx, projectID, trackingID)
	if err != nil {
		return nil, tracking.StoreError("getting record", err)
	}
	return rec, nil
}

// GetSummary returns the condensed records of a project in chronological order.
func (s *Service) GetSummary(ctx context.Context, projectID string) ([]tracking.Summary, error) {
	if err := requireIDs(projectID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, tracking.StoreError("listing project records", err)
	}
	summaries := make([]tracking.Summary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, rec.Summary())
	}
	return summaries, nil
}

// DeleteProject removes all records of a project. Deleting an unknown
// project is not an error.
func (s *Service) DeleteProject(ctx context.Context, projectID string) (int64, error) {
	if err := requireIDs(projectID); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteProject(ctx, projectID)
	if err != nil {
		return 0, tracking.StoreError("deleting project", err)
	}
	s.logger.Debug("project deleted", "project_id", projectID, "records", n)
	if n > 0 {
		s.logActivity(ctx, &activity.ActivityEntry{
			ProjectID:    projectID,
			ActivityType: activity.TypeProjectDeleted,
			Summary:      fmt.Sprintf("deleted %d record(s)", n),
		})
	}
	return n, nil
}

// DeleteTracking removes every record of one tracking id within a project.
func (s *Service) DeleteTracking(ctx context.Context, projectID, trackingID string) (int64, error) {
	if err := requireIDs(projectID, trackingID); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteTracking(ctx, projectID, trackingID)
	if err != nil {
		return 0, tracking.StoreError("deleting tracking", err)
	}
	s.logger.Debug("tracking deleted", "project_id", projectID, "tracking_id", trackingID, "records", n)
	if n > 0 {
		s.logActivity(ctx, &activity.ActivityEntry{
			ProjectID:    projectID,
			TrackingID:   &trackingID,
			ActivityType: activity.TypeTrackingDeleted,
			Summary:      fmt.Sprintf("deleted %d record(s) of %s", n, trackingID),
		})
	}
	return n, nil
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	entry.CreatedAt = time.Now().UTC()
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "project_id", entry.ProjectID, "type", entry.ActivityType, "error", err)
	}
}

func requireIDs(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: project and tracking ids must be non-empty", tracking.ErrInvalidArgument)
		}
	}
	return nil
}
