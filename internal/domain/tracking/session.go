package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
)

// Session is the tracking context of a single LLM call. It moves from
// StateOpen to StateCompleted exactly once; evaluations may then be appended
// any number of times.
type Session struct {
	mu      sync.Mutex
	id      string
	tracker *Tracker
	state   State
	start   time.Time
	record  Record
}

// ID returns the session id used for log correlation. It is not persisted.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record returns a copy of the record in progress.
func (s *Session) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.clone()
}

// Complete computes metrics for the finished call and persists the record.
// On any error nothing is persisted and the session stays open.
func (s *Session) Complete(ctx context.Context, model, prompt string, response any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return fmt.Errorf("%w: complete called in state %s", ErrInvalidState, s.state)
	}

	t := s.tracker
	elapsed := t.now().Sub(s.start).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	output, err := EncodeOutput(response)
	if err != nil {
		return err
	}
	text, err := choiceText(output)
	if err != nil {
		return err
	}

	cost, tokens, err := s.measure(model, prompt, text)
	if err != nil {
		return err
	}

	rec := s.record.clone()
	rec.ExecutionTimeMs = elapsed
	rec.Model = model
	rec.Input = prompt
	rec.Output = output
	rec.Cost = cost
	rec.Tokens = tokens
	rec.Evaluations = []EvaluationResult{}

	if err := t.records.Insert(ctx, &rec); err != nil {
		return StoreError("inserting record", err)
	}

	s.record = rec
	s.state = StateCompleted

	t.logger.Debug("tracking session completed",
		"session_id", s.id,
		"project_id", rec.ProjectID,
		"tracking_id", rec.TrackingID,
		"model", model,
		"execution_time_ms", elapsed,
		"total_tokens", tokens.TotalTokens,
		"total_cost", cost.TotalCost,
	)
	t.logActivity(ctx, &rec, activity.TypeTrackingCompleted,
		fmt.Sprintf("%s completed with %s", rec.TrackingID, model),
		fmt.Sprintf(`{"total_tokens":%d,"total_cost":%s,"execution_time_ms":%d}`,
			tokens.TotalTokens, formatFloat(cost.TotalCost), elapsed),
	)
	return nil
}

func (s *Session) measure(model, prompt, completion string) (Cost, Tokens, error) {
	m := s.tracker.metrics
	if m == nil {
		return Cost{}, Tokens{}, fmt.Errorf("%w: no metrics provider configured", ErrMetricsUnavailable)
	}

	promptCost, err := m.PromptCost(prompt, model)
	if err != nil {
		return Cost{}, Tokens{}, fmt.Errorf("%w: prompt cost: %w", ErrMetricsUnavailable, err)
	}
	promptTokens, err := m.CountTokens(prompt, model)
	if err != nil {
		return Cost{}, Tokens{}, fmt.Errorf("%w: prompt tokens: %w", ErrMetricsUnavailable, err)
	}
	completionCost, err := m.CompletionCost(completion, model)
	if err != nil {
		return Cost{}, Tokens{}, fmt.Errorf("%w: completion cost: %w", ErrMetricsUnavailable, err)
	}
	completionTokens, err := m.CountTokens(completion, model)
	if err != nil {
		return Cost{}, Tokens{}, fmt.Errorf("%w: completion tokens: %w", ErrMetricsUnavailable, err)
	}

	if !validCost(promptCost) || !validCost(completionCost) || promptTokens < 0 || completionTokens < 0 {
		return Cost{}, Tokens{}, fmt.Errorf("%w: provider returned negative or non-finite values for model %q", ErrMetricsUnavailable, model)
	}

	return Cost{
			PromptCost:     promptCost,
			CompletionCost: completionCost,
			TotalCost:      promptCost + completionCost,
		}, Tokens{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		}, nil
}

// Evaluate scores the completed output and appends the result to the record.
// In dev mode it returns nil without scoring or writing anything.
func (s *Session) Evaluate(ctx context.Context, description string, scale Scale, opts ...EvalOption) error {
	var o evalOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return fmt.Errorf("%w: evaluate called in state %s", ErrInvalidState, s.state)
	}
	if o.devMode {
		return nil
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: evaluation description is required", ErrInvalidArgument)
	}
	if err := scale.Validate(); err != nil {
		return err
	}

	t := s.tracker
	raw, err := s.score(ctx, description, o)
	if err != nil {
		return err
	}

	result := EvaluationResult{
		Description:     description,
		RawScore:        raw,
		Scale:           scale,
		NormalizedScore: Normalize(raw, scale),
		Model:           o.model,
		LogOnly:         o.logOnly,
		CreatedAt:       t.now().UTC().Truncate(time.Millisecond),
	}

	evals := append(append(make([]EvaluationResult, 0, len(s.record.Evaluations)+1), s.record.Evaluations...), result)
	rec := &s.record
	if err := t.records.UpdateEvaluations(ctx, rec.ProjectID, rec.TrackingID, rec.CreatedAt, evals); err != nil {
		return StoreError("updating evaluations", err)
	}
	rec.Evaluations = evals

	t.logger.Debug("evaluation recorded",
		"session_id", s.id,
		"project_id", rec.ProjectID,
		"tracking_id", rec.TrackingID,
		"raw_score", raw,
		"normalized_score", result.NormalizedScore,
		"log_only", o.logOnly,
	)
	t.logActivity(ctx, rec, activity.TypeEvaluationRecorded,
		fmt.Sprintf("%s: %s", rec.TrackingID, description),
		fmt.Sprintf(`{"normalized_score":%s,"log_only":%t}`, formatFloat(result.NormalizedScore), o.logOnly),
	)
	return nil
}

func (s *Session) score(ctx context.Context, description string, o evalOptions) (float64, error) {
	var (
		raw float64
		err error
	)
	switch {
	case o.evalFn != nil:
		raw, err = o.evalFn(ctx, s.record.Output)
	case s.tracker.evaluator != nil:
		raw, err = s.tracker.evaluator.Score(ctx, description, s.record.Output, o.model)
	default:
		return 0, fmt.Errorf("%w: no evaluation function or provider configured", ErrEvaluationUnavailable)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEvaluationUnavailable, err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: scorer returned a non-finite score", ErrEvaluationUnavailable)
	}
	return raw, nil
}

func validCost(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func formatFloat(v float64) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "0"
	}
	return string(data)
}
