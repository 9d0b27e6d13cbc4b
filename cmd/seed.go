package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"resmatch/internal/bootstrap"
	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/domain/match"
	"resmatch/internal/errs"
)

type seedFile struct {
	Students []seedStudent `yaml:"students"`
	Projects []seedProject `yaml:"projects"`
}

type seedStudent struct {
	ID                     string   `yaml:"id"`
	Skills                 []string `yaml:"skills"`
	ResearchInterests      []string `yaml:"research_interests"`
	GPA                    float64  `yaml:"gpa"`
	Major                  string   `yaml:"major"`
	AcademicBackground     string   `yaml:"academic_background"`
	ProjectExperienceCount int      `yaml:"project_experience_count"`
}

type seedProject struct {
	ID             string   `yaml:"id"`
	RequiredSkills []string `yaml:"required_skills"`
	ResearchField  string   `yaml:"research_field"`
	Description    string   `yaml:"description"`
	Requirements   string   `yaml:"requirements"`
	Status         string   `yaml:"status"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load students and projects from a YAML fixture file",
	RunE: withApp(func(cmd *cobra.Command, components bootstrap.Components) error {
		ctx := cmd.Context()

		fixtureFile, _ := cmd.Flags().GetString("file")
		raw, err := os.ReadFile(fixtureFile)
		if err != nil {
			return errs.Wrapf(err, "read seed file %s", fixtureFile)
		}

		var fixture seedFile
		if err := yaml.Unmarshal(raw, &fixture); err != nil {
			return errs.Wrapf(err, "decode seed file %s", fixtureFile)
		}

		for _, s := range fixture.Students {
			student := match.Student{
				ID:                     s.ID,
				Skills:                 s.Skills,
				ResearchInterests:      s.ResearchInterests,
				GPA:                    s.GPA,
				Major:                  s.Major,
				AcademicBackground:     s.AcademicBackground,
				ProjectExperienceCount: s.ProjectExperienceCount,
			}
			if err := components.Entities.UpsertStudent(ctx, student); err != nil {
				return errs.Wrapf(err, "seed student %s", s.ID)
			}
		}

		for _, p := range fixture.Projects {
			status := match.ProjectStatus(p.Status)
			if p.Status == "" {
				status = match.ProjectActive
			}
			project := match.Project{
				ID:             p.ID,
				RequiredSkills: p.RequiredSkills,
				ResearchField:  p.ResearchField,
				Description:    p.Description,
				Requirements:   p.Requirements,
				Status:         status,
			}
			if err := components.Entities.UpsertProject(ctx, project); err != nil {
				return errs.Wrapf(err, "seed project %s", p.ID)
			}
		}

		logging.Info(ctx, "seed finished",
			slog.Int("students", len(fixture.Students)),
			slog.Int("projects", len(fixture.Projects)),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "seeded %d students and %d projects\n",
			len(fixture.Students), len(fixture.Projects)); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("file", "configs/seed.yaml", "Path to the YAML fixture file")
}
