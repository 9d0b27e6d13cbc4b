package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"resmatch/internal/bootstrap"
	"resmatch/internal/errs"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <student-id>",
	Short: "List the top recommended projects for a student",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, components bootstrap.Components) error {
		ctx := cmd.Context()
		studentID := cmd.Flags().Arg(0)
		limit, _ := cmd.Flags().GetInt("limit")

		recommendations, err := components.Service.GetStudentRecommendations(ctx, studentID, limit)
		if err != nil {
			return err
		}

		for rank, rec := range recommendations {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%2d. %-16s %6.1f  %s\n",
				rank+1,
				rec.Project.ID,
				rec.Score.Overall,
				rec.Project.ResearchField,
			); err != nil {
				return errs.Wrap(err, "write recommendation output")
			}
		}
		if len(recommendations) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no active projects to recommend"); err != nil {
				return errs.Wrap(err, "write recommendation output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Int("limit", 0, "Max projects to return (0 uses the configured default)")
}
