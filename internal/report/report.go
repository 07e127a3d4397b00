// Package report renders tracking records as human-readable text.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
	"github.com/rpggio/llmatic/internal/domain/tracking"
)

// SlowCallMs is the execution time above which a call is highlighted.
const SlowCallMs = 500

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	ruleColor   = color.New(color.FgYellow)
	idColor     = color.New(color.FgRed)
	valueColor  = color.New(color.FgYellow)
	goodColor   = color.New(color.FgGreen)
	badColor    = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
)

const timeFormat = "2006-01-02 15:04:05.000"

var rule = strings.Repeat("-", 60)

// RenderRecord writes the detailed view of one record.
func RenderRecord(w io.Writer, rec *tracking.Record) {
	headerColor.Fprintf(w, "LLM Tracking Results for: %s\n", rec.TrackingID)
	ruleColor.Fprintln(w, rule)
	fmt.Fprintf(w, "Project: %s\n", valueColor.Sprint(rec.ProjectID))
	fmt.Fprintf(w, "Tracking ID: %s\n", idColor.Sprint(rec.TrackingID))
	fmt.Fprintf(w, "Created At: %s\n", rec.CreatedAt.UTC().Format(timeFormat))
	fmt.Fprintf(w, "Call Site: %s\n", valueColor.Sprint(rec.CallSite))
	fmt.Fprintf(w, "Model: %s\n", valueColor.Sprint(orNA(rec.Model)))
	fmt.Fprintf(w, "Prompt: %s\n", valueColor.Sprintf("%q", rec.Input))
	fmt.Fprintf(w, "Execution Time: %s\n", durationColor(rec.ExecutionTimeMs).Sprintf("%d ms", rec.ExecutionTimeMs))
	fmt.Fprintf(w, "Total Cost: %s (prompt %s, completion %s)\n",
		goodColor.Sprint(formatCost(rec.Cost.TotalCost)),
		formatCost(rec.Cost.PromptCost),
		formatCost(rec.Cost.CompletionCost),
	)
	fmt.Fprintf(w, "Tokens: %d (prompt %d, completion %d)\n",
		rec.Tokens.TotalTokens, rec.Tokens.PromptTokens, rec.Tokens.CompletionTokens)
	fmt.Fprintln(w)

	headerColor.Fprintln(w, "Evaluation Results:")
	ruleColor.Fprintln(w, rule)
	if len(rec.Evaluations) == 0 {
		dimColor.Fprintln(w, "No evaluations recorded.")
	}
	for _, eval := range rec.Evaluations {
		line := fmt.Sprintf("%s: %s (%s/10)",
			eval.Description,
			goodColor.Sprintf("%s / %s", formatScore(eval.RawScore), formatScore(eval.Scale.High)),
			formatScore(eval.NormalizedScore),
		)
		if eval.Model != "" {
			line += dimColor.Sprintf(" [%s]", eval.Model)
		}
		if eval.LogOnly {
			line += dimColor.Sprint(" [log only]")
		}
		fmt.Fprintln(w, line)
	}
	if avg, ok := rec.AverageScore(); ok {
		fmt.Fprintf(w, "Average Score: %s/10\n", goodColor.Sprint(formatScore(avg)))
	}
	fmt.Fprintln(w)

	headerColor.Fprintln(w, "Generated Text:")
	ruleColor.Fprintln(w, rule)
	text, err := rec.ResponseText()
	if err != nil {
		badColor.Fprintf(w, "unavailable: %v\n", err)
		return
	}
	goodColor.Fprintln(w, text)
}

// RenderSummary writes the chronological table of a project's records.
func RenderSummary(w io.Writer, projectID string, summaries []tracking.Summary) error {
	headerColor.Fprintf(w, "Project: %s\n", projectID)
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No trackings found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tTRACKING ID\tMODEL\tTIME (ms)\tCOST\tTOKENS\tEVALS\tCALL SITE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
			s.CreatedAt.UTC().Format(timeFormat),
			s.TrackingID,
			orNA(s.Model),
			s.ExecutionTimeMs,
			formatCost(s.TotalCost),
			s.TotalTokens,
			s.EvaluationCount,
			s.CallSite,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	totals := project.SumTotals(summaries)
	fmt.Fprintf(w, "\n%d record(s), total cost %s, %d tokens, %d ms\n",
		totals.Records, formatCost(totals.TotalCost), totals.TotalTokens, totals.TotalExecutionTimeMs)
	return nil
}

// RenderProjects writes one project id per line.
func RenderProjects(w io.Writer, projects []string) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No trackings found.")
		return
	}
	for _, p := range projects {
		fmt.Fprintln(w, p)
	}
}

// RenderActivity writes activity entries, newest first.
func RenderActivity(w io.Writer, entries []activity.ActivityEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tTRACKING ID\tSUMMARY")
	for _, e := range entries {
		trackingID := "-"
		if e.TrackingID != nil {
			trackingID = *e.TrackingID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.UTC().Format(timeFormat), e.ActivityType, trackingID, e.Summary)
	}
	return tw.Flush()
}

func durationColor(ms int64) *color.Color {
	if ms > SlowCallMs {
		return badColor
	}
	return goodColor
}

func formatCost(v float64) string {
	return fmt.Sprintf("$%.6f", v)
}

func formatScore(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
