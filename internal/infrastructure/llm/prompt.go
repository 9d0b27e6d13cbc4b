package llm

import (
	"encoding/json"
	"strings"

	_ "embed"

	"resmatch/internal/domain/match"
	"resmatch/internal/errs"
)

//go:embed prompt.md
var promptTemplate string

type studentPayload struct {
	ID                     string   `json:"id"`
	Skills                 []string `json:"skills"`
	ResearchInterests      []string `json:"researchInterests"`
	GPA                    float64  `json:"gpa"`
	Major                  string   `json:"major"`
	AcademicBackground     string   `json:"academicBackground"`
	ProjectExperienceCount int      `json:"projectExperienceCount"`
}

type projectPayload struct {
	ID             string   `json:"id"`
	RequiredSkills []string `json:"requiredSkills"`
	ResearchField  string   `json:"researchField"`
	Description    string   `json:"description"`
	Requirements   string   `json:"requirements"`
}

func buildPrompt(student match.Student, project match.Project) (string, error) {
	student = student.Normalized()
	project = project.Normalized()

	studentJSON, err := json.MarshalIndent(studentPayload{
		ID:                     student.ID,
		Skills:                 student.Skills,
		ResearchInterests:      student.ResearchInterests,
		GPA:                    student.GPA,
		Major:                  student.Major,
		AcademicBackground:     student.AcademicBackground,
		ProjectExperienceCount: student.ProjectExperienceCount,
	}, "", "  ")
	if err != nil {
		return "", errs.Wrap(err, "marshal student payload")
	}

	projectJSON, err := json.MarshalIndent(projectPayload{
		ID:             project.ID,
		RequiredSkills: project.RequiredSkills,
		ResearchField:  project.ResearchField,
		Description:    project.Description,
		Requirements:   project.Requirements,
	}, "", "  ")
	if err != nil {
		return "", errs.Wrap(err, "marshal project payload")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{STUDENT_JSON}}", string(studentJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROJECT_JSON}}", string(projectJSON))
	return prompt, nil
}

// extractJSON strips markdown fences some models still wrap around JSON
// despite the structured-output instruction.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
