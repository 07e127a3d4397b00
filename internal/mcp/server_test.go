package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/mcp"
	"github.com/rpggio/llmatic/internal/pricing"
	"github.com/rpggio/llmatic/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	tracker *tracking.Tracker
	session *sdkmcp.ClientSession
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(sqlite.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx))
	t.Cleanup(func() { db.Close() })

	records := sqlite.NewTrackingRepository(db)
	activities := sqlite.NewActivityRepository(db)
	metrics := pricing.NewProvider(pricing.Table{"m1": {InputPer1K: 1, OutputPer1K: 2}})

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: project.NewService(records, activities, nil),
			Activity: activity.NewService(activities, nil),
		},
		Version: "test",
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	return &testEnv{
		tracker: tracking.NewTracker(records, metrics, nil, activities, nil),
		session: cs,
	}
}

func (e *testEnv) track(t *testing.T, projectID, trackingID, text string) *tracking.Session {
	t.Helper()
	sess, err := e.tracker.Open(projectID, trackingID, "server_test")
	require.NoError(t, err)
	response := map[string]any{"choices": []any{map[string]any{"text": text}}}
	require.NoError(t, sess.Complete(context.Background(), "m1", "prompt for "+trackingID, response))
	return sess
}

func callTool[Out any](t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) Out {
	t.Helper()
	res := callToolRaw(t, cs, name, args)
	require.False(t, res.IsError, "tool %s returned error: %s", name, toolText(res))
	var out Out
	require.NoError(t, json.Unmarshal([]byte(toolText(res)), &out))
	return out
}

func callToolRaw(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func toolText(res *sdkmcp.CallToolResult) string {
	for _, content := range res.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestServer_ListsTools(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"list_projects", "get_record", "get_summary", "delete_project", "get_recent_activity"} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestServer_ListProjectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	out := callTool[mcp.ListProjectsResult](t, env.session, "list_projects", nil)
	require.NotNil(t, out.Projects)
	require.Empty(t, out.Projects)
}

func TestServer_GetRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.track(t, "demo", "greet", " hello ")

	scoreSeven := tracking.WithEvalFunc(func(context.Context, json.RawMessage) (float64, error) { return 7, nil })
	require.NoError(t, sess.Evaluate(ctx, "tone", tracking.Scale{Low: 0, High: 10}, scoreSeven))

	out := callTool[mcp.GetRecordResult](t, env.session, "get_record", map[string]any{
		"project_id":  "demo",
		"tracking_id": "greet",
	})
	require.Equal(t, "hello", out.ResponseText)
	require.Equal(t, "demo", out.Record.ProjectID)
	require.Equal(t, "m1", out.Record.Model)
	require.Equal(t, out.Record.Cost.PromptCost+out.Record.Cost.CompletionCost, out.Record.Cost.TotalCost)
	require.Len(t, out.Record.Evaluations, 1)
	require.Equal(t, 7.0, out.Record.Evaluations[0].NormalizedScore)
	require.NotNil(t, out.Record.AverageScore)
	require.Equal(t, 7.0, *out.Record.AverageScore)
}

func TestServer_GetRecordNotFound(t *testing.T) {
	env := newTestEnv(t)
	res := callToolRaw(t, env.session, "get_record", map[string]any{
		"project_id":  "demo",
		"tracking_id": "missing",
	})
	require.True(t, res.IsError)
	require.Contains(t, toolText(res), "RECORD_NOT_FOUND")
}

func TestServer_GetRecordInvalidArgument(t *testing.T) {
	env := newTestEnv(t)
	res := callToolRaw(t, env.session, "get_record", map[string]any{
		"project_id":  "",
		"tracking_id": "greet",
	})
	require.True(t, res.IsError)
	require.Contains(t, toolText(res), "INVALID_ARGUMENT")
}

func TestServer_SummaryAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.track(t, "demo", "first", "one")
	env.track(t, "demo", "second", "two")
	env.track(t, "other", "x", "three")

	summary := callTool[mcp.GetSummaryResult](t, env.session, "get_summary", map[string]any{"project_id": "demo"})
	require.Len(t, summary.Records, 2)
	require.Equal(t, "first", summary.Records[0].TrackingID)
	require.Equal(t, "second", summary.Records[1].TrackingID)
	require.Equal(t, 2, summary.Totals.Records)

	deleted := callTool[mcp.DeleteProjectResult](t, env.session, "delete_project", map[string]any{
		"project_id":  "demo",
		"tracking_id": "first",
	})
	require.Equal(t, int64(1), deleted.Deleted)

	deleted = callTool[mcp.DeleteProjectResult](t, env.session, "delete_project", map[string]any{"project_id": "demo"})
	require.Equal(t, int64(1), deleted.Deleted)

	deleted = callTool[mcp.DeleteProjectResult](t, env.session, "delete_project", map[string]any{"project_id": "demo"})
	require.Zero(t, deleted.Deleted)

	projects := callTool[mcp.ListProjectsResult](t, env.session, "list_projects", nil)
	require.Equal(t, []string{"other"}, projects.Projects)

	activityOut := callTool[mcp.GetRecentActivityResult](t, env.session, "get_recent_activity", map[string]any{"project_id": "demo"})
	require.NotEmpty(t, activityOut.Entries)
	require.Equal(t, string(activity.TypeProjectDeleted), activityOut.Entries[0].Type)
}

func TestServer_DocsResource(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "llmatic://docs/records"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "normalized_score")
}
