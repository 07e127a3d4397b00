package main

import (
	"context"

	"github.com/rpggio/llmatic/internal/report"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <project>",
	Short: "Summarize every tracked call in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			summaries, err := a.projects.GetSummary(ctx, args[0])
			if err != nil {
				return err
			}
			return report.RenderSummary(cmd.OutOrStdout(), args[0], summaries)
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
