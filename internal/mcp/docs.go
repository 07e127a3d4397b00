package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `llmatic records LLM calls as tracking records grouped by project.

Each record holds the prompt, the raw response, latency, token counts, cost and
zero or more evaluations. A (project_id, tracking_id) pair names a recurring
call site; the same pair may have many records over time and reads return the
latest one.

Workflow:
1) list_projects to find project ids.
2) get_summary(project_id) for a chronological, condensed view with totals.
3) get_record(project_id, tracking_id) for the full latest record.
4) get_recent_activity(project_id) for completions, evaluations and deletions.
5) delete_project(project_id[, tracking_id]) to remove records. It is idempotent.

Docs:
- llmatic://docs/records (record fields and score normalization)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "llmatic://docs/records",
		Name:        "docs_records",
		Title:       "llmatic tracking records",
		Description: "Field reference for tracking records, evaluations and score normalization.",
		Content: `# Tracking records

| Field | Meaning |
|---|---|
| ` + "`project_id`" + ` | Groups records. |
| ` + "`tracking_id`" + ` | Names a recurring call site within a project. Not unique over time. |
| ` + "`created_at`" + ` | When the call started (UTC, millisecond precision). |
| ` + "`call_site`" + ` | Source location label supplied by the caller, or ` + "`unknown`" + `. |
| ` + "`execution_time_ms`" + ` | Wall-clock duration of the call. |
| ` + "`cost`" + ` | ` + "`prompt_cost + completion_cost = total_cost`" + `, in USD. |
| ` + "`tokens`" + ` | ` + "`prompt_tokens + completion_tokens = total_tokens`" + `. |
| ` + "`output`" + ` | The raw provider response. ` + "`response_text`" + ` is its trimmed first choice. |
| ` + "`evaluations`" + ` | Scores in the order they were recorded. |

## Evaluations

` + "`normalized_score = raw_score / scale.high * 10`" + `.

The low end of the scale is not subtracted. A score of 5 on a 5..10 scale
normalizes to 5, not 0. Compare normalized scores only across evaluations
that share a scale shape.

Evaluations with ` + "`log_only: true`" + ` are informational. They are excluded
from ` + "`average_score`" + ` and should be excluded from any pass/fail judgment.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
