package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"resmatch/internal/bootstrap"
	"resmatch/internal/errs"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <project-id>",
	Short: "List the best matching students for a project",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, components bootstrap.Components) error {
		ctx := cmd.Context()
		projectID := cmd.Flags().Arg(0)
		limit, _ := cmd.Flags().GetInt("limit")

		candidates, err := components.Service.GetProjectCandidates(ctx, projectID, limit)
		if err != nil {
			return err
		}

		for rank, candidate := range candidates {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%2d. %-16s %6.1f  %s (GPA %.2f)\n",
				rank+1,
				candidate.Student.ID,
				candidate.Score.Overall,
				candidate.Student.Major,
				candidate.Student.GPA,
			); err != nil {
				return errs.Wrap(err, "write candidate output")
			}
		}
		if len(candidates) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no students to rank"); err != nil {
				return errs.Wrap(err, "write candidate output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(candidatesCmd)

	candidatesCmd.Flags().Int("limit", 0, "Max students to return (0 uses the configured default)")
}
