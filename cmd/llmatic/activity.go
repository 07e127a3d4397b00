package main

import (
	"context"

	"github.com/rpggio/llmatic/internal/domain/activity"
	"github.com/rpggio/llmatic/internal/report"
	"github.com/spf13/cobra"
)

var (
	activityTracking string
	activityType     string
	activityLimit    int
)

var activityCmd = &cobra.Command{
	Use:   "activity <project>",
	Short: "Show recent activity for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := activity.ListActivityOptions{
			ProjectID: args[0],
			Limit:     activityLimit,
		}
		if activityType != "" {
			t := activity.ActivityType(activityType)
			opts.ActivityType = &t
		}
		if activityTracking != "" {
			opts.TrackingID = &activityTracking
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			entries, err := a.activity.GetRecentActivity(ctx, opts)
			if err != nil {
				return err
			}
			return report.RenderActivity(cmd.OutOrStdout(), entries)
		})
	},
}

func init() {
	activityCmd.Flags().StringVar(&activityTracking, "tracking", "", "only show activity for this tracking id")
	activityCmd.Flags().StringVar(&activityType, "type", "", "only show activity of this type")
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", activity.DefaultLimit, "maximum number of entries")
	rootCmd.AddCommand(activityCmd)
}
