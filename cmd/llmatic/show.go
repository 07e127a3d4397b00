package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/report"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <project> <tracking-id>",
	Short: "Show the latest record for a tracking id",
	Long: `Show the most recent record stored under a project and tracking id:
model, prompt, execution time, cost, tokens, evaluations and the generated text.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, trackingID := args[0], args[1]
		return withApp(cmd, func(ctx context.Context, a *app) error {
			rec, err := a.projects.GetRecord(ctx, projectID, trackingID)
			if errors.Is(err, tracking.ErrRecordNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No tracking found for id: %s\n", trackingID)
				return nil
			}
			if err != nil {
				return err
			}
			report.RenderRecord(cmd.OutOrStdout(), rec)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
