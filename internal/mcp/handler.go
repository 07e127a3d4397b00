package mcp

import (
	"context"
	"strings"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
)

// Handler implements the MCP tools on top of the domain services.
type Handler struct {
	projects ProjectService
	activity ActivityService
}

// NewHandler creates a new MCP handler. activitySvc may be nil.
func NewHandler(projects ProjectService, activitySvc ActivityService) *Handler {
	return &Handler{projects: projects, activity: activitySvc}
}

func (h *Handler) ListProjects(ctx context.Context, _ ListProjectsParams) (ListProjectsResult, error) {
	projects, err := h.projects.ListProjects(ctx)
	if err != nil {
		return ListProjectsResult{}, err
	}
	if projects == nil {
		projects = []string{}
	}
	return ListProjectsResult{Projects: projects}, nil
}

func (h *Handler) GetRecord(ctx context.Context, params GetRecordParams) (GetRecordResult, error) {
	rec, err := h.projects.GetRecord(ctx, params.ProjectID, params.TrackingID)
	if err != nil {
		return GetRecordResult{}, err
	}
	result := GetRecordResult{Record: toRecordView(rec)}
	text, err := rec.ResponseText()
	if err != nil {
		result.ResponseTextError = err.Error()
	} else {
		result.ResponseText = text
	}
	return result, nil
}

func (h *Handler) GetSummary(ctx context.Context, params GetSummaryParams) (GetSummaryResult, error) {
	summaries, err := h.projects.GetSummary(ctx, params.ProjectID)
	if err != nil {
		return GetSummaryResult{}, err
	}
	views := make([]SummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, toSummaryView(s))
	}
	return GetSummaryResult{
		ProjectID: params.ProjectID,
		Records:   views,
		Totals:    project.SumTotals(summaries),
	}, nil
}

func (h *Handler) DeleteProject(ctx context.Context, params DeleteProjectParams) (DeleteProjectResult, error) {
	var (
		n   int64
		err error
	)
	if strings.TrimSpace(params.TrackingID) != "" {
		n, err = h.projects.DeleteTracking(ctx, params.ProjectID, params.TrackingID)
	} else {
		n, err = h.projects.DeleteProject(ctx, params.ProjectID)
	}
	if err != nil {
		return DeleteProjectResult{}, err
	}
	return DeleteProjectResult{Deleted: n}, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, params GetRecentActivityParams) (GetRecentActivityResult, error) {
	if h.activity == nil {
		return GetRecentActivityResult{Entries: []ActivityView{}}, nil
	}
	opts := activity.ListActivityOptions{ProjectID: params.ProjectID, Limit: params.Limit}
	if params.TrackingID != "" {
		opts.TrackingID = &params.TrackingID
	}
	entries, err := h.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return GetRecentActivityResult{}, err
	}
	views := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toActivityView(e))
	}
	return GetRecentActivityResult{Entries: views}, nil
}
