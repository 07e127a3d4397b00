package tracking

import (
	"encoding/json"
	"slices"
	"time"
)

// State represents the lifecycle state of a tracking session
type State string

const (
	StateOpen      State = "open"
	StateCompleted State = "completed"
)

// Record is the persisted result of one tracked LLM call
type Record struct {
	ID              int64              `json:"id"`
	ProjectID       string             `json:"project_id"`
	TrackingID      string             `json:"tracking_id"`
	CreatedAt       time.Time          `json:"created_at"`
	CallSite        string             `json:"call_site"`
	ExecutionTimeMs int64              `json:"execution_time_ms"`
	Model           string             `json:"model"`
	Input           string             `json:"input"`
	Output          json.RawMessage    `json:"output"`
	Cost            Cost               `json:"cost"`
	Tokens          Tokens             `json:"tokens"`
	Evaluations     []EvaluationResult `json:"evaluations"`
}

// Cost holds the monetary cost of a call, in the pricing table's currency
type Cost struct {
	PromptCost     float64 `json:"prompt_cost"`
	CompletionCost float64 `json:"completion_cost"`
	TotalCost      float64 `json:"total_cost"`
}

// Tokens holds token usage of a call
type Tokens struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Scale is the declared range of a raw evaluation score
type Scale struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// EvaluationResult is one quality judgment recorded against a completed call
type EvaluationResult struct {
	Description     string    `json:"description"`
	RawScore        float64   `json:"raw_score"`
	Scale           Scale     `json:"scale"`
	NormalizedScore float64   `json:"normalized_score"`
	Model           string    `json:"model,omitempty"`
	LogOnly         bool      `json:"log_only"`
	CreatedAt       time.Time `json:"created_at"`
}

// Summary is the condensed view of a record used for project listings
type Summary struct {
	TrackingID      string    `json:"tracking_id"`
	Model           string    `json:"model"`
	CallSite        string    `json:"call_site"`
	CreatedAt       time.Time `json:"created_at"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	TotalCost       float64   `json:"total_cost"`
	TotalTokens     int       `json:"total_tokens"`
	EvaluationCount int       `json:"evaluation_count"`
}

// Summary returns the condensed view of the record.
func (r Record) Summary() Summary {
	return Summary{
		TrackingID:      r.TrackingID,
		Model:           r.Model,
		CallSite:        r.CallSite,
		CreatedAt:       r.CreatedAt,
		ExecutionTimeMs: r.ExecutionTimeMs,
		TotalCost:       r.Cost.TotalCost,
		TotalTokens:     r.Tokens.TotalTokens,
		EvaluationCount: len(r.Evaluations),
	}
}

// ScoredEvaluations returns the evaluations that count towards aggregates.
// Log-only evaluations are excluded.
func (r Record) ScoredEvaluations() []EvaluationResult {
	scored := make([]EvaluationResult, 0, len(r.Evaluations))
	for _, eval := range r.Evaluations {
		if !eval.LogOnly {
			scored = append(scored, eval)
		}
	}
	return scored
}

// AverageScore averages the normalized scores of the scored evaluations.
// ok is false when there is nothing to average.
func (r Record) AverageScore() (avg float64, ok bool) {
	scored := r.ScoredEvaluations()
	if len(scored) == 0 {
		return 0, false
	}
	var sum float64
	for _, eval := range scored {
		sum += eval.NormalizedScore
	}
	return sum / float64(len(scored)), true
}

// ResponseText returns the trimmed first-choice text of the stored output.
func (r Record) ResponseText() (string, error) {
	return ResponseText(r.Output)
}

func (r Record) clone() Record {
	out := r
	out.Output = slices.Clone(r.Output)
	out.Evaluations = slices.Clone(r.Evaluations)
	return out
}
