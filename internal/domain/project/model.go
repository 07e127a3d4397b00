package project

import "github.com/rpggio/llmatic/internal/domain/tracking"

// Totals aggregates the condensed records of one project
type Totals struct {
	Records              int     `json:"records"`
	TotalCost            float64 `json:"total_cost"`
	TotalTokens          int     `json:"total_tokens"`
	TotalExecutionTimeMs int64   `json:"total_execution_time_ms"`
}

// SumTotals adds up the given summaries.
func SumTotals(summaries []tracking.Summary) Totals {
	totals := Totals{Records: len(summaries)}
	for _, s := range summaries {
		totals.TotalCost += s.TotalCost
		totals.TotalTokens += s.TotalTokens
		totals.TotalExecutionTimeMs += s.ExecutionTimeMs
	}
	return totals
}
