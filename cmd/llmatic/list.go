package main

import (
	"context"

	"github.com/rpggio/llmatic/internal/report"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with tracked calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			projects, err := a.projects.ListProjects(ctx)
			if err != nil {
				return err
			}
			report.RenderProjects(cmd.OutOrStdout(), projects)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
