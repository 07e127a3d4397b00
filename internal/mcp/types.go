package mcp

import (
	"encoding/json"
	"time"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
	"github.com/rpggio/llmatic/internal/domain/tracking"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

type ListProjectsParams struct{}

type ListProjectsResult struct {
	Projects []string `json:"projects"`
}

type GetRecordParams struct {
	ProjectID  string `json:"project_id" jsonschema:"project the record belongs to"`
	TrackingID string `json:"tracking_id" jsonschema:"tracking id; the latest record is returned"`
}

type GetRecordResult struct {
	Record       RecordView `json:"record"`
	ResponseText string     `json:"response_text"`

	// ResponseTextError is set when the stored output has no readable first choice.
	ResponseTextError string `json:"response_text_error,omitempty"`
}

type GetSummaryParams struct {
	ProjectID string `json:"project_id" jsonschema:"project to summarize"`
}

type GetSummaryResult struct {
	ProjectID string         `json:"project_id"`
	Records   []SummaryView  `json:"records"`
	Totals    project.Totals `json:"totals"`
}

type DeleteProjectParams struct {
	ProjectID  string `json:"project_id" jsonschema:"project to delete"`
	TrackingID string `json:"tracking_id,omitempty" jsonschema:"when set, only records of this tracking id are deleted"`
}

type DeleteProjectResult struct {
	Deleted int64 `json:"deleted"`
}

type GetRecentActivityParams struct {
	ProjectID  string `json:"project_id" jsonschema:"project to read activity for"`
	TrackingID string `json:"tracking_id,omitempty" jsonschema:"only entries for this tracking id"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type GetRecentActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

// RecordView is the wire form of a tracking record.
type RecordView struct {
	ID              int64            `json:"id"`
	ProjectID       string           `json:"project_id"`
	TrackingID      string           `json:"tracking_id"`
	CreatedAt       string           `json:"created_at"`
	CallSite        string           `json:"call_site"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	Model           string           `json:"model"`
	Input           string           `json:"input"`
	Output          any              `json:"output"`
	Cost            tracking.Cost    `json:"cost"`
	Tokens          tracking.Tokens  `json:"tokens"`
	Evaluations     []EvaluationView `json:"evaluations"`
	AverageScore    *float64         `json:"average_score,omitempty"`
}

type EvaluationView struct {
	Description     string         `json:"description"`
	RawScore        float64        `json:"raw_score"`
	Scale           tracking.Scale `json:"scale"`
	NormalizedScore float64        `json:"normalized_score"`
	Model           string         `json:"model,omitempty"`
	LogOnly         bool           `json:"log_only"`
	CreatedAt       string         `json:"created_at,omitempty"`
}

type SummaryView struct {
	TrackingID      string  `json:"tracking_id"`
	Model           string  `json:"model"`
	CallSite        string  `json:"call_site"`
	CreatedAt       string  `json:"created_at"`
	ExecutionTimeMs int64   `json:"execution_time_ms"`
	TotalCost       float64 `json:"total_cost"`
	TotalTokens     int     `json:"total_tokens"`
	EvaluationCount int     `json:"evaluation_count"`
}

type ActivityView struct {
	ID         int64  `json:"id"`
	ProjectID  string `json:"project_id"`
	TrackingID string `json:"tracking_id,omitempty"`
	Type       string `json:"type"`
	Summary    string `json:"summary"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func toRecordView(rec *tracking.Record) RecordView {
	var output any
	if len(rec.Output) > 0 {
		if err := json.Unmarshal(rec.Output, &output); err != nil {
			output = string(rec.Output)
		}
	}
	evals := make([]EvaluationView, 0, len(rec.Evaluations))
	for _, e := range rec.Evaluations {
		evals = append(evals, EvaluationView{
			Description:     e.Description,
			RawScore:        e.RawScore,
			Scale:           e.Scale,
			NormalizedScore: e.NormalizedScore,
			Model:           e.Model,
			LogOnly:         e.LogOnly,
			CreatedAt:       formatTime(e.CreatedAt),
		})
	}
	view := RecordView{
		ID:              rec.ID,
		ProjectID:       rec.ProjectID,
		TrackingID:      rec.TrackingID,
		CreatedAt:       formatTime(rec.CreatedAt),
		CallSite:        rec.CallSite,
		ExecutionTimeMs: rec.ExecutionTimeMs,
		Model:           rec.Model,
		Input:           rec.Input,
		Output:          output,
		Cost:            rec.Cost,
		Tokens:          rec.Tokens,
		Evaluations:     evals,
	}
	if avg, ok := rec.AverageScore(); ok {
		view.AverageScore = &avg
	}
	return view
}

func toSummaryView(s tracking.Summary) SummaryView {
	return SummaryView{
		TrackingID:      s.TrackingID,
		Model:           s.Model,
		CallSite:        s.CallSite,
		CreatedAt:       formatTime(s.CreatedAt),
		ExecutionTimeMs: s.ExecutionTimeMs,
		TotalCost:       s.TotalCost,
		TotalTokens:     s.TotalTokens,
		EvaluationCount: s.EvaluationCount,
	}
}

func toActivityView(e activity.ActivityEntry) ActivityView {
	view := ActivityView{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		Type:      string(e.ActivityType),
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: formatTime(e.CreatedAt),
	}
	if e.TrackingID != nil {
		view.TrackingID = *e.TrackingID
	}
	return view
}
