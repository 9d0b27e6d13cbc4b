package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"resmatch/internal/bootstrap"
	domainmatch "resmatch/internal/domain/match"
	"resmatch/internal/errs"
	matchusecase "resmatch/internal/usecase/match"
)

var scoreCmd = &cobra.Command{
	Use:   "score <student-id> <project-id>",
	Short: "Score one student/project pair",
	Long: "Scores a single pair through the full orchestrator (cache, model, fallback).\n" +
		"With --profile the pair is scored offline with the profile's fallback weights\n" +
		"instead, bypassing both the model and the cache.",
	Args: cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, components bootstrap.Components) error {
		ctx := cmd.Context()
		studentID, projectID := cmd.Flags().Arg(0), cmd.Flags().Arg(1)

		profileFile, _ := cmd.Flags().GetString("profile")

		var (
			score domainmatch.Score
			err   error
		)
		if profileFile != "" {
			weights, loadErr := matchusecase.LoadScoringProfile(profileFile)
			if loadErr != nil {
				return errs.Wrapf(loadErr, "load scoring profile %s", profileFile)
			}

			student, getErr := components.Entities.GetStudent(ctx, studentID)
			if getErr != nil {
				return getErr
			}
			project, getErr := components.Entities.GetProject(ctx, projectID)
			if getErr != nil {
				return getErr
			}
			score = domainmatch.FallbackScore(student, project, weights)
		} else {
			score, err = components.Service.GetScore(ctx, studentID, projectID)
			if err != nil {
				return err
			}
		}

		out, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return errs.Wrap(err, "encode score")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
			return errs.Wrap(err, "write score output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("profile", "", "Optional TOML scoring profile for an offline fallback-weight run")
}
