package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/repository"
	"github.com/rpggio/llmatic/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_ListProjects(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	repo.On("ListProjects", ctx).Return(nil, nil).Once()
	repo.On("ListProjects", ctx).Return([]string{"alpha", "demo"}, nil).Once()

	svc := project.NewService(repo, nil, nil)

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.NotNil(t, projects)
	require.Empty(t, projects)

	projects, err = svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "demo"}, projects)
}

func TestProjectService_GetRecordNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	repo.On("GetLatest", ctx, "demo", "missing").Return((*tracking.Record)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil, nil)
	_, err := svc.GetRecord(ctx, "demo", "missing")
	require.ErrorIs(t, err, tracking.ErrRecordNotFound)
	require.Equal(t, "RecordNotFound", tracking.Kind(err))
}

func TestProjectService_GetRecordValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	svc := project.NewService(repo, nil, nil)

	_, err := svc.GetRecord(ctx, "", "greet")
	require.ErrorIs(t, err, tracking.ErrInvalidArgument)
	_, err = svc.GetSummary(ctx, " ")
	require.ErrorIs(t, err, tracking.ErrInvalidArgument)
	_, err = svc.DeleteProject(ctx, "")
	require.ErrorIs(t, err, tracking.ErrInvalidArgument)
	_, err = svc.DeleteTracking(ctx, "demo", "")
	require.ErrorIs(t, err, tracking.ErrInvalidArgument)

	repo.AssertExpectations(t)
}

func TestProjectService_GetSummaryKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.On("ListByProject", ctx, "demo").Return([]tracking.Record{
		{TrackingID: "a", Model: "m1", CreatedAt: base, ExecutionTimeMs: 10, Cost: tracking.Cost{TotalCost: 0.25}, Tokens: tracking.Tokens{TotalTokens: 3}},
		{TrackingID: "b", Model: "m2", CreatedAt: base.Add(time.Second), ExecutionTimeMs: 20, Cost: tracking.Cost{TotalCost: 0.5}, Tokens: tracking.Tokens{TotalTokens: 4}},
	}, nil)

	svc := project.NewService(repo, nil, nil)
	summaries, err := svc.GetSummary(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "a", summaries[0].TrackingID)
	require.Equal(t, "b", summaries[1].TrackingID)

	totals := project.SumTotals(summaries)
	require.Equal(t, 2, totals.Records)
	require.Equal(t, 0.75, totals.TotalCost)
	require.Equal(t, 7, totals.TotalTokens)
	require.Equal(t, int64(30), totals.TotalExecutionTimeMs)
}

func TestProjectService_DeleteProjectLogsActivity(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	activities := &mocks.ActivityRepository{}
	repo.On("DeleteProject", ctx, "demo").Return(int64(3), nil).Once()
	repo.On("DeleteProject", ctx, "demo").Return(int64(0), nil).Once()
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ProjectID == "demo" && e.ActivityType == activity.TypeProjectDeleted
	})).Return(nil).Once()

	svc := project.NewService(repo, activities, nil)

	n, err := svc.DeleteProject(ctx, "demo")
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	n, err = svc.DeleteProject(ctx, "demo")
	require.NoError(t, err)
	require.Zero(t, n)

	activities.AssertExpectations(t)
}

func TestProjectService_DeleteTracking(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	activities := &mocks.ActivityRepository{}
	repo.On("DeleteTracking", ctx, "demo", "greet").Return(int64(2), nil)
	activities.On("Log", ctx, mock.Anything).Return(errors.New("locked"))

	svc := project.NewService(repo, activities, nil)
	n, err := svc.DeleteTracking(ctx, "demo", "greet")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestProjectService_StorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackingRepository{}
	repo.On("ListByProject", ctx, "demo").Return(nil, repository.ErrStorageUnavailable)

	svc := project.NewService(repo, nil, nil)
	_, err := svc.GetSummary(ctx, "demo")
	require.ErrorIs(t, err, tracking.ErrStorageUnavailable)
}
