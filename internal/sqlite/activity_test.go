package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeTrackingCompleted,
		Summary:      "greet completed",
		Details:      `{"total_tokens":5}`,
		CreatedAt:    baseTime,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeEvaluationRecorded,
		Summary:      "greet: tone",
		CreatedAt:    baseTime.Add(10 * time.Millisecond),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, `{"total_tokens":5}`, entries[1].Details)
	require.Equal(t, baseTime, entries[1].CreatedAt)
	require.Nil(t, entries[1].TrackingID)
}

func TestActivityRepository_FiltersAndProjectIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	trackingID := "greet"
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ProjectID:    "p1",
		TrackingID:   &trackingID,
		ActivityType: activity.TypeTrackingDeleted,
		Summary:      "deleted",
	}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectDeleted,
		Summary:      "deleted project",
	}))

	activityType := activity.TypeTrackingDeleted
	entries, err := repo.List(ctx, activity.ListActivityOptions{
		ProjectID:    "p1",
		TrackingID:   &trackingID,
		ActivityType: &activityType,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "greet", *entries[0].TrackingID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p2"})
	require.NoError(t, err)
	require.Len(t, entries, 0)
}
