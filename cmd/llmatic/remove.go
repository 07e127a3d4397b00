package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <project> [tracking-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project or a single tracking id",
	Long: `Delete every record of a project, or only the records stored under one
tracking id when it is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				n, err := a.projects.DeleteTracking(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintf(out, "No tracking found for id: %s\n", args[1])
					return nil
				}
				fmt.Fprintf(out, "Removed %d record(s) for tracking id: %s\n", n, args[1])
				return nil
			}

			n, err := a.projects.DeleteProject(ctx, args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintf(out, "No trackings found for project: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Removed %d record(s) for project: %s\n", n, args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
