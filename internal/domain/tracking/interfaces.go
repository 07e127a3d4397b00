package tracking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
)

// Repository provides persistence for tracking records.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	UpdateEvaluations(ctx context.Context, projectID, trackingID string, createdAt time.Time, evals []EvaluationResult) error
}

// ActivityRepository logs lifecycle events.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// MetricsProvider computes cost and token counts for a piece of text.
// Implementations must be deterministic for a given (text, model) pair.
type MetricsProvider interface {
	PromptCost(text, model string) (float64, error)
	CompletionCost(text, model string) (float64, error)
	CountTokens(text, model string) (int, error)
}

// EvaluationProvider scores a completed output against a rubric description.
type EvaluationProvider interface {
	Score(ctx context.Context, description string, output json.RawMessage, model string) (float64, error)
}

// EvaluationFunc adapts a plain function to EvaluationProvider.
type EvaluationFunc func(ctx context.Context, description string, output json.RawMessage, model string) (float64, error)

// Score calls f.
func (f EvaluationFunc) Score(ctx context.Context, description string, output json.RawMessage, model string) (float64, error) {
	return f(ctx, description, output, model)
}
