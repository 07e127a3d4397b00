package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/llmatic/internal/domain/tracking"
)

func registerTools(server *sdkmcp.Server, h *Handler, logger *slog.Logger) {
	readOnly := &sdkmcp.ToolAnnotations{ReadOnlyHint: true}

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List every project that has at least one tracking record",
		Annotations: readOnly,
	}, h.ListProjects)

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "get_record",
		Description: "Get the latest tracking record for a project and tracking id, including cost, tokens, evaluations and the generated text",
		Annotations: readOnly,
	}, h.GetRecord)

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "get_summary",
		Description: "List a project's records in chronological order in condensed form, with totals",
		Annotations: readOnly,
	}, h.GetSummary)

	destructive := true
	addTool(server, logger, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete all records of a project, or only those of one tracking id. Deleting nothing is not an error",
		Annotations: &sdkmcp.ToolAnnotations{DestructiveHint: &destructive},
	}, h.DeleteProject)

	addTool(server, logger, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent lifecycle events of a project, newest first",
		Annotations: readOnly,
	}, h.GetRecentActivity)
}

// addTool registers fn as a tool and maps domain errors to APIError results.
func addTool[In, Out any](server *sdkmcp.Server, logger *slog.Logger, tool *sdkmcp.Tool, fn func(context.Context, In) (Out, error)) {
	sdkmcp.AddTool(server, tool, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			apiErr := MapError(err)
			logger.Debug("tool failed", "tool", tool.Name, "code", apiErr.Code, "kind", tracking.Kind(err), "error", err)
			return nil, zero, apiErr
		}
		return nil, out, nil
	})
}
