package match

import "math"

// ScoreSource tags which strategy produced a Score. It is kept out of the
// caller-facing JSON contract but drives the fallback-usage metric.
type ScoreSource string

const (
	SourceModel    ScoreSource = "model"
	SourceFallback ScoreSource = "fallback"
)

// Score is the compatibility verdict for one (student, project) pair.
// It is immutable once produced; recomputation replaces, never patches.
type Score struct {
	Overall         float64     `json:"score"`
	SkillMatch      float64     `json:"skillMatch"`
	InterestMatch   float64     `json:"interestMatch"`
	ExperienceMatch float64     `json:"experienceMatch"`
	Reasoning       string      `json:"reasoning"`
	MatchedSkills   []string    `json:"matchedSkills"`
	Suggestions     string      `json:"suggestions"`
	Source          ScoreSource `json:"-"`
}

// ClampScore forces v into [0,100]. NaN collapses to 0 so that malformed
// numerics from the model never leak out of range.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Clamped returns a copy of s with every numeric field forced into [0,100].
func (s Score) Clamped() Score {
	s.Overall = ClampScore(s.Overall)
	s.SkillMatch = ClampScore(s.SkillMatch)
	s.InterestMatch = ClampScore(s.InterestMatch)
	s.ExperienceMatch = ClampScore(s.ExperienceMatch)
	if s.MatchedSkills == nil {
		s.MatchedSkills = []string{}
	}
	return s
}

// MatchedSkills computes the exact case-sensitive intersection of the
// student's skills and the project's required skills, preserving the
// project's required-skill ordering.
func MatchedSkills(student Student, project Project) []string {
	have := make(map[string]struct{}, len(student.Skills))
	for _, skill := range student.Skills {
		have[skill] = struct{}{}
	}

	matched := make([]string, 0, len(project.RequiredSkills))
	seen := make(map[string]struct{}, len(project.RequiredSkills))
	for _, required := range project.RequiredSkills {
		if _, dup := seen[required]; dup {
			continue
		}
		seen[required] = struct{}{}
		if _, ok := have[required]; ok {
			matched = append(matched, required)
		}
	}
	return matched
}
