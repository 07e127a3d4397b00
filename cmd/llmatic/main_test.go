package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/pricing"
	"github.com/rpggio/llmatic/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"LLMATIC_CONFIG_PATH", "LLMATIC_SERVER_HOST", "LLMATIC_SERVER_PORT", "LLMATIC_SERVER_TOKEN", "LLMATIC_TRANSPORT",
		"LLMATIC_DB_PATH", "LLMATIC_LOG_LEVEL", "LLMATIC_LOG_PATH", "LLMATIC_DEV_MODE",
	} {
		t.Setenv(key, "")
	}
	return filepath.Join(home, "tracking.db")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		dbPath, logLevel, noColor = "", "", false
		activityTracking, activityType, activityLimit = "", "", activity.DefaultLimit
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// seed records one completed and evaluated call per tracking id.
func seed(t *testing.T, path, projectID string, trackingIDs ...string) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	tracker := tracking.NewTracker(
		sqlite.NewTrackingRepository(db),
		pricing.NewProvider(pricing.DefaultTable()),
		nil,
		sqlite.NewActivityRepository(db),
		nil,
	)
	for _, id := range trackingIDs {
		sess, err := tracker.Open(projectID, id, "main_run")
		require.NoError(t, err)
		require.NoError(t, sess.Complete(ctx, "gpt-3.5-turbo", "Say hello", `{"choices":[{"text":" Hello there "}]}`))
		require.NoError(t, sess.Evaluate(ctx, "is polite", tracking.Scale{Low: 0, High: 5},
			tracking.WithEvalFunc(func(context.Context, json.RawMessage) (float64, error) { return 4, nil })))
	}
}

func TestList(t *testing.T) {
	path := isolate(t)

	out, err := runCLI(t, "list", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "No trackings found.\n", out)

	seed(t, path, "beta", "one")
	seed(t, path, "alpha", "two")

	out, err = runCLI(t, "list", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "alpha\nbeta\n", out)
}

func TestShow(t *testing.T) {
	path := isolate(t)
	seed(t, path, "demo", "greet")

	out, err := runCLI(t, "show", "demo", "greet", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "LLM Tracking Results for: greet")
	require.Contains(t, out, "Model: gpt-3.5-turbo")
	require.Contains(t, out, "is polite: 4 / 5 (8/10)")
	require.Contains(t, out, "Hello there")
}

func TestShow_NotFound(t *testing.T) {
	path := isolate(t)

	out, err := runCLI(t, "show", "demo", "nope", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "No tracking found for id: nope\n", out)
}

func TestShow_RequiresArgs(t *testing.T) {
	path := isolate(t)

	_, err := runCLI(t, "show", "demo", "--db", path)
	require.Error(t, err)
}

func TestSummary(t *testing.T) {
	path := isolate(t)
	seed(t, path, "demo", "first", "second")

	out, err := runCLI(t, "summary", "demo", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "Project: demo")
	require.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
	require.Contains(t, out, "2 record(s)")
}

func TestRemove(t *testing.T) {
	path := isolate(t)
	seed(t, path, "demo", "keep", "drop")

	out, err := runCLI(t, "remove", "demo", "drop", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "Removed 1 record(s) for tracking id: drop\n", out)

	out, err = runCLI(t, "show", "demo", "drop", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "No tracking found for id: drop\n", out)

	out, err = runCLI(t, "rm", "demo", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "Removed 1 record(s) for project: demo\n", out)

	out, err = runCLI(t, "remove", "demo", "--db", path)
	require.NoError(t, err)
	require.Equal(t, "No trackings found for project: demo\n", out)
}

func TestActivity(t *testing.T) {
	path := isolate(t)
	seed(t, path, "demo", "greet")

	_, err := runCLI(t, "remove", "demo", "greet", "--db", path)
	require.NoError(t, err)

	out, err := runCLI(t, "activity", "demo", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, string(activity.TypeTrackingCompleted))
	require.Contains(t, out, string(activity.TypeEvaluationRecorded))
	require.Contains(t, out, string(activity.TypeTrackingDeleted))

	out, err = runCLI(t, "activity", "demo", "--type", "tracking_deleted", "--db", path)
	require.NoError(t, err)
	require.NotContains(t, out, string(activity.TypeTrackingCompleted))
	require.Contains(t, out, string(activity.TypeTrackingDeleted))
}

func TestActivity_InvalidType(t *testing.T) {
	path := isolate(t)

	_, err := runCLI(t, "activity", "demo", "--type", "bogus", "--db", path)
	require.ErrorIs(t, err, activity.ErrInvalidInput)

	var buf bytes.Buffer
	printError(&buf, err)
	require.True(t, strings.HasPrefix(buf.String(), "InvalidArgument: "), buf.String())
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("llmatic version %s\n", Version), out)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, fmt.Errorf("get: %w", tracking.ErrStorageUnavailable))
	require.Equal(t, "StorageUnavailable: get: storage unavailable\n", buf.String())

	buf.Reset()
	printError(&buf, errors.New("boom"))
	require.Equal(t, "error: boom\n", buf.String())
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "llmatic.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()
	w.maxSize = 64
	w.keep = 16

	_, err = w.Write([]byte(strings.Repeat("a", 60) + "\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789abcdef", string(data))
}
