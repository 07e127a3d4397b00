// Package llmatic records LLM calls made by a program: prompt, response,
// latency, token usage, cost and any number of quality evaluations, all kept
// in a local SQLite store grouped by project and tracking id.
//
// A typical call looks like:
//
//	client, err := llmatic.Open(ctx, llmatic.Options{})
//	...
//	sess, err := client.Track("demo", "greet")
//	resp := callModel("Say hello")
//	err = sess.Complete(ctx, "gpt-3.5-turbo", "Say hello", resp)
//	err = sess.Evaluate(ctx, "is polite", llmatic.Scale{Low: 0, High: 10})
package llmatic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/llmatic/internal/config"
	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/pricing"
	"github.com/rpggio/llmatic/internal/sqlite"
)

// Options configures Open. Zero values fall back to the loaded configuration.
type Options struct {
	// DBPath overrides the configured database path.
	DBPath string
	// Metrics computes cost and tokens. Defaults to the configured price table.
	Metrics MetricsProvider
	// Prices are merged over the configured price table. Ignored when Metrics is set.
	Prices PriceTable
	// Evaluator scores evaluations that are not given an explicit EvalFunc.
	Evaluator EvaluationProvider
	// DevMode turns every Evaluate into a no-op. It is also enabled by
	// LLMATIC_DEV_MODE or eval.dev_mode in the config file.
	DevMode bool
	Logger  *slog.Logger
}

// Client owns a tracking store and the services built on it.
type Client struct {
	db       *sqlite.DB
	tracker  *tracking.Tracker
	projects *project.Service
	activity *activity.Service
	devMode  bool
}

// Open loads configuration, opens (and if needed creates) the store and
// returns a ready client. The caller must Close it.
func Open(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: loading config: %w", ErrInvalidArgument, err)
	}
	if opts.DBPath != "" {
		cfg.DB.Path = opts.DBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	metrics := opts.Metrics
	if metrics == nil {
		table := cfg.PricingTable().Merge(opts.Prices)
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		metrics = pricing.NewProvider(table)
	}

	db, err := sqlite.Open(ctx, cfg.DB.Path)
	if err != nil {
		return nil, tracking.StoreError("opening "+cfg.DB.Path, err)
	}
	logger.Debug("tracking store opened", "path", cfg.DB.Path)

	records := sqlite.NewTrackingRepository(db)
	activities := sqlite.NewActivityRepository(db)

	return &Client{
		db:       db,
		tracker:  tracking.NewTracker(records, metrics, opts.Evaluator, activities, logger),
		projects: project.NewService(records, activities, logger),
		activity: activity.NewService(activities, logger),
		devMode:  opts.DevMode || cfg.Eval.DevMode,
	}, nil
}

// Close releases the store.
func (c *Client) Close() error {
	return c.db.Close()
}

// Track opens a session labelled with the source location of its caller.
func (c *Client) Track(projectID, trackingID string) (*Session, error) {
	return c.TrackAt(projectID, trackingID, tracking.CallerSite(1))
}

// TrackAt opens a session with an explicit call site label.
func (c *Client) TrackAt(projectID, trackingID, callSite string) (*Session, error) {
	sess, err := c.tracker.Open(projectID, trackingID, callSite)
	if err != nil {
		return nil, err
	}
	return &Session{Session: sess, devMode: c.devMode}, nil
}

// ListProjects returns every project id with at least one record.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	return c.projects.ListProjects(ctx)
}

// GetRecord returns the most recent record for the tracking id.
// ErrRecordNotFound is returned when there is none.
func (c *Client) GetRecord(ctx context.Context, projectID, trackingID string) (*Record, error) {
	return c.projects.GetRecord(ctx, projectID, trackingID)
}

// GetSummary returns the condensed view of every record in a project, oldest first.
func (c *Client) GetSummary(ctx context.Context, projectID string) ([]Summary, error) {
	return c.projects.GetSummary(ctx, projectID)
}

// DeleteProject removes every record of a project and reports how many were removed.
func (c *Client) DeleteProject(ctx context.Context, projectID string) (int64, error) {
	return c.projects.DeleteProject(ctx, projectID)
}

// DeleteTracking removes the records of one tracking id.
func (c *Client) DeleteTracking(ctx context.Context, projectID, trackingID string) (int64, error) {
	return c.projects.DeleteTracking(ctx, projectID, trackingID)
}

// RecentActivity lists lifecycle events of a project, newest first.
// A limit of zero uses the default.
func (c *Client) RecentActivity(ctx context.Context, projectID string, limit int) ([]ActivityEntry, error) {
	entries, err := c.activity.GetRecentActivity(ctx, activity.ListActivityOptions{
		ProjectID: projectID,
		Limit:     limit,
	})
	if errors.Is(err, activity.ErrInvalidInput) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return entries, err
}

// Session tracks a single LLM call. It must not be shared between goroutines
// that rely on the order of their evaluations.
type Session struct {
	*tracking.Session
	devMode bool
}

// Evaluate scores the completed call and appends the result to its record.
// It is a no-op when the client runs in dev mode.
func (s *Session) Evaluate(ctx context.Context, description string, scale Scale, opts ...EvalOption) error {
	opts = append(opts[:len(opts):len(opts)], tracking.DevModeIf(s.devMode))
	return s.Session.Evaluate(ctx, description, scale, opts...)
}
