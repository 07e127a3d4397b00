package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/rpggio/llmatic/internal/config"
	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/domain/project"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/sqlite"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	logLevel string
	noColor  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "llmatic",
	Short: "Inspect tracked LLM calls",
	Long: `llmatic shows the LLM calls recorded by the llmatic tracking library:
latency, token usage, cost and evaluation scores, grouped by project.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the tracking database (default $LLMATIC_DB_PATH or ~/.llmatic/llmatic.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func printError(w io.Writer, err error) {
	kind := tracking.Kind(err)
	if errors.Is(err, activity.ErrInvalidInput) {
		kind = "InvalidArgument"
	}
	if kind == "Internal" {
		color.New(color.FgRed).Fprintf(w, "error: %v\n", err)
		return
	}
	color.New(color.FgRed).Fprintf(w, "%s: %v\n", kind, err)
}

// app holds the services a command runs against.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	projects *project.Service
	activity *activity.Service
	logClose func() error
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, logClose := newLogger(cfg, cmd.ErrOrStderr())

	db, err := sqlite.Open(ctx, cfg.DB.Path)
	if err != nil {
		logClose()
		return nil, tracking.StoreError("opening "+cfg.DB.Path, err)
	}
	logger.Debug("database opened", "path", cfg.DB.Path)

	trackings := sqlite.NewTrackingRepository(db)
	activities := sqlite.NewActivityRepository(db)

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		projects: project.NewService(trackings, activities, logger),
		activity: activity.NewService(activities, logger),
		logClose: logClose,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.db.Close(), a.logClose())
}

// withApp opens the store for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
