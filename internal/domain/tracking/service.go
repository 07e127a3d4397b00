package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/llmatic/internal/domain/activity"
)

// UnknownCallSite is recorded when the caller does not supply a call site.
const UnknownCallSite = "unknown"

// Tracker opens tracking sessions and owns their collaborators.
type Tracker struct {
	records    Repository
	metrics    MetricsProvider
	evaluator  EvaluationProvider
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewTracker creates a new tracker. evaluator and activities may be nil.
func NewTracker(
	records Repository,
	metrics MetricsProvider,
	evaluator EvaluationProvider,
	activities ActivityRepository,
	logger *slog.Logger,
) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		records:    records,
		metrics:    metrics,
		evaluator:  evaluator,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for start times and durations.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	if now != nil {
		t.now = now
	}
	return t
}

// Open starts a tracking session for one LLM call.
func (t *Tracker) Open(projectID, trackingID, callSite string) (*Session, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(trackingID) == "" {
		return nil, fmt.Errorf("%w: tracking id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(callSite) == "" {
		callSite = UnknownCallSite
	}

	start := t.now()
	sess := &Session{
		id:      uuid.NewString(),
		tracker: t,
		state:   StateOpen,
		start:   start,
		record: Record{
			ProjectID:   projectID,
			TrackingID:  trackingID,
			CreatedAt:   start.UTC().Truncate(time.Millisecond),
			CallSite:    callSite,
			Evaluations: []EvaluationResult{},
		},
	}
	t.logger.Debug("tracking session opened",
		"session_id", sess.id,
		"project_id", projectID,
		"tracking_id", trackingID,
		"call_site", callSite,
	)
	return sess, nil
}

// logActivity writes a lifecycle entry. Failures are logged and dropped.
func (t *Tracker) logActivity(ctx context.Context, rec *Record, kind activity.ActivityType, summary, details string) {
	if t.activities == nil {
		return
	}
	trackingID := rec.TrackingID
	entry := &activity.ActivityEntry{
		ProjectID:    rec.ProjectID,
		TrackingID:   &trackingID,
		ActivityType: kind,
		Summary:      summary,
		Details:      details,
		CreatedAt:    t.now().UTC(),
	}
	if err := t.activities.Log(ctx, entry); err != nil {
		t.logger.Warn("failed to log activity",
			"project_id", rec.ProjectID,
			"tracking_id", rec.TrackingID,
			"type", kind,
			"error", err,
		)
	}
}
