package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/stretchr/testify/mock"
)

// TrackingRepository is a mock for the tracking record store.
type TrackingRepository struct {
	mock.Mock
}

func (m *TrackingRepository) Insert(ctx context.Context, rec *tracking.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *TrackingRepository) UpdateEvaluations(ctx context.Context, projectID, trackingID string, createdAt time.Time, evals []tracking.EvaluationResult) error {
	args := m.Called(ctx, projectID, trackingID, createdAt, evals)
	return args.Error(0)
}

func (m *TrackingRepository) ListProjects(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackingRepository) GetLatest(ctx context.Context, projectID, trackingID string) (*tracking.Record, error) {
	args := m.Called(ctx, projectID, trackingID)
	if rec, ok := args.Get(0).(*tracking.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackingRepository) ListByProject(ctx context.Context, projectID string) ([]tracking.Record, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]tracking.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackingRepository) DeleteProject(ctx context.Context, projectID string) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TrackingRepository) DeleteTracking(ctx context.Context, projectID, trackingID string) (int64, error) {
	args := m.Called(ctx, projectID, trackingID)
	return args.Get(0).(int64), args.Error(1)
}

// ActivityRepository is a mock for the activity log.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MetricsProvider is a mock for tracking.MetricsProvider.
type MetricsProvider struct {
	mock.Mock
}

func (m *MetricsProvider) PromptCost(text, model string) (float64, error) {
	args := m.Called(text, model)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MetricsProvider) CompletionCost(text, model string) (float64, error) {
	args := m.Called(text, model)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MetricsProvider) CountTokens(text, model string) (int, error) {
	args := m.Called(text, model)
	return args.Int(0), args.Error(1)
}

// EvaluationProvider is a mock for tracking.EvaluationProvider.
type EvaluationProvider struct {
	mock.Mock
}

func (m *EvaluationProvider) Score(ctx context.Context, description string, output json.RawMessage, model string) (float64, error) {
	args := m.Called(ctx, description, output, model)
	return args.Get(0).(float64), args.Error(1)
}
