package match

import (
	"fmt"
	"strings"
)

// Weights is the fixed blend used for the fallback overall score.
// The defaults are the documented policy; scores are only comparable
// across calls while the blend stays stable.
type Weights struct {
	Skill      float64
	Interest   float64
	Experience float64
}

// DefaultWeights: skill overlap dominates, interests second, experience
// last. The three must sum to 1.
var DefaultWeights = Weights{Skill: 0.5, Interest: 0.3, Experience: 0.2}

func (w Weights) Valid() bool {
	sum := w.Skill + w.Interest + w.Experience
	return w.Skill >= 0 && w.Interest >= 0 && w.Experience >= 0 &&
		sum > 0.999 && sum < 1.001
}

// Experience heuristic knobs: GPA is read on a 4.0 scale and blended with
// prior project count capped at maxCountedProjects.
const (
	gpaScale           = 4.0
	maxCountedProjects = 5
	gpaShare           = 0.6
)

// FallbackScore rates a pair locally without any I/O. It is total and
// deterministic: identical inputs always produce bit-identical output,
// which is what lets the cache tests use it as an oracle.
func FallbackScore(student Student, project Project, weights Weights) Score {
	if !weights.Valid() {
		weights = DefaultWeights
	}

	student = student.Normalized()
	project = project.Normalized()

	matched := MatchedSkills(student, project)
	skillMatch := ratioScore(len(matched), len(project.RequiredSkills))
	interestMatch := interestOverlapScore(student.ResearchInterests, project.ResearchField)
	experienceMatch := experienceScore(student.GPA, student.ProjectExperienceCount)

	overall := weights.Skill*skillMatch + weights.Interest*interestMatch + weights.Experience*experienceMatch

	return Score{
		Overall:         ClampScore(overall),
		SkillMatch:      skillMatch,
		InterestMatch:   interestMatch,
		ExperienceMatch: experienceMatch,
		Reasoning: fmt.Sprintf(
			"Rule-based estimate: %d of %d required skills matched; interest overlap %.0f%%; experience signal %.0f%%.",
			len(matched), len(project.RequiredSkills), interestMatch, experienceMatch,
		),
		MatchedSkills: matched,
		Suggestions:   "",
		Source:        SourceFallback,
	}
}

func ratioScore(matched, total int) float64 {
	if total < 1 {
		total = 1
	}
	return ClampScore(100 * float64(matched) / float64(total))
}

// interestOverlapScore is a coarse token-level comparison between the
// student's stated interests and the project's research field.
func interestOverlapScore(interests []string, field string) float64 {
	if len(interests) == 0 || field == "" {
		return 0
	}

	fieldLower := strings.ToLower(field)
	fieldTokens := tokenize(fieldLower)

	overlapping := 0
	for _, interest := range interests {
		interestLower := strings.ToLower(strings.TrimSpace(interest))
		if interestLower == "" {
			continue
		}
		if strings.Contains(fieldLower, interestLower) || strings.Contains(interestLower, fieldLower) {
			overlapping++
			continue
		}
		if tokensOverlap(tokenize(interestLower), fieldTokens) {
			overlapping++
		}
	}

	return ratioScore(overlapping, len(interests))
}

func experienceScore(gpa float64, projectCount int) float64 {
	gpaScore := ClampScore(100 * gpa / gpaScale)

	if projectCount < 0 {
		projectCount = 0
	}
	if projectCount > maxCountedProjects {
		projectCount = maxCountedProjects
	}
	countScore := 100 * float64(projectCount) / float64(maxCountedProjects)

	return ClampScore(gpaShare*gpaScore + (1-gpaShare)*countScore)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}

func tokensOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, tok := range a {
		set[tok] = struct{}{}
	}
	for _, tok := range b {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}
