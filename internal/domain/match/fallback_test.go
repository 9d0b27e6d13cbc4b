package match

import (
	"reflect"
	"testing"
)

func TestFallbackScorePartialSkillOverlap(t *testing.T) {
	student := Student{
		ID:                     "stu-1",
		Skills:                 []string{"Python", "TensorFlow"},
		ResearchInterests:      []string{"machine learning"},
		GPA:                    3.5,
		ProjectExperienceCount: 2,
	}
	project := Project{
		ID:             "proj-1",
		RequiredSkills: []string{"Python", "PyTorch"},
		ResearchField:  "deep learning",
		Status:         ProjectActive,
	}

	score := FallbackScore(student, project, DefaultWeights)

	if score.SkillMatch != 50 {
		t.Fatalf("SkillMatch = %v, want 50", score.SkillMatch)
	}
	if !reflect.DeepEqual(score.MatchedSkills, []string{"Python"}) {
		t.Fatalf("MatchedSkills = %v, want [Python]", score.MatchedSkills)
	}
	if score.Source != SourceFallback {
		t.Fatalf("Source = %v, want %v", score.Source, SourceFallback)
	}
	if score.Reasoning == "" {
		t.Fatal("Reasoning is empty")
	}
}

func TestFallbackScoreDeterministic(t *testing.T) {
	student := Student{
		ID:                     "stu-1",
		Skills:                 []string{"Go", "Python"},
		ResearchInterests:      []string{"distributed systems", "databases"},
		GPA:                    3.2,
		ProjectExperienceCount: 4,
	}
	project := Project{
		ID:             "proj-1",
		RequiredSkills: []string{"Go", "Kubernetes"},
		ResearchField:  "distributed systems",
		Status:         ProjectActive,
	}

	first := FallbackScore(student, project, DefaultWeights)
	for i := 0; i < 10; i++ {
		again := FallbackScore(student, project, DefaultWeights)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestFallbackScoreRanges(t *testing.T) {
	cases := []struct {
		name    string
		student Student
		project Project
	}{
		{
			name:    "empty entities",
			student: Student{ID: "stu-1"},
			project: Project{ID: "proj-1"},
		},
		{
			name: "out of range numerics",
			student: Student{
				ID:                     "stu-2",
				GPA:                    17,
				ProjectExperienceCount: -3,
			},
			project: Project{ID: "proj-2", RequiredSkills: []string{"Go"}},
		},
		{
			name: "full overlap",
			student: Student{
				ID:                     "stu-3",
				Skills:                 []string{"Go", "Rust"},
				ResearchInterests:      []string{"systems"},
				GPA:                    4.0,
				ProjectExperienceCount: 9,
			},
			project: Project{
				ID:             "proj-3",
				RequiredSkills: []string{"Go", "Rust"},
				ResearchField:  "systems",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := FallbackScore(tc.student, tc.project, DefaultWeights)
			for name, v := range map[string]float64{
				"Overall":         score.Overall,
				"SkillMatch":      score.SkillMatch,
				"InterestMatch":   score.InterestMatch,
				"ExperienceMatch": score.ExperienceMatch,
			} {
				if v < 0 || v > 100 {
					t.Fatalf("%s = %v, out of [0,100]", name, v)
				}
			}
			if score.MatchedSkills == nil {
				t.Fatal("MatchedSkills is nil")
			}
		})
	}
}

func TestFallbackScoreInvalidWeightsUseDefaults(t *testing.T) {
	student := Student{ID: "stu-1", Skills: []string{"Go"}}
	project := Project{ID: "proj-1", RequiredSkills: []string{"Go"}}

	got := FallbackScore(student, project, Weights{Skill: 3, Interest: 3, Experience: 3})
	want := FallbackScore(student, project, DefaultWeights)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid weights result = %+v, want defaults result %+v", got, want)
	}
}

func TestMatchedSkillsCaseSensitiveProjectOrder(t *testing.T) {
	student := Student{Skills: []string{"python", "Go", "SQL"}}
	project := Project{RequiredSkills: []string{"SQL", "Python", "Go", "Go"}}

	got := MatchedSkills(student, project)
	if !reflect.DeepEqual(got, []string{"SQL", "Go"}) {
		t.Fatalf("MatchedSkills = %v, want [SQL Go]", got)
	}
}

func TestMatchedSkillsSubsetOfRequired(t *testing.T) {
	student := Student{Skills: []string{"A", "B", "C", "D"}}
	project := Project{RequiredSkills: []string{"B", "D"}}

	required := map[string]struct{}{"B": {}, "D": {}}
	for _, skill := range MatchedSkills(student, project) {
		if _, ok := required[skill]; !ok {
			t.Fatalf("matched skill %q is not in required set", skill)
		}
	}
}

func TestInterestOverlapScore(t *testing.T) {
	cases := []struct {
		name      string
		interests []string
		field     string
		want      float64
	}{
		{"no interests", nil, "deep learning", 0},
		{"no field", []string{"ml"}, "", 0},
		{"exact containment", []string{"machine learning"}, "machine learning systems", 100},
		{"token overlap", []string{"statistical learning"}, "deep learning", 100},
		{"half overlap", []string{"deep learning", "chemistry"}, "deep learning", 50},
		{"disjoint", []string{"chemistry"}, "deep learning", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := interestOverlapScore(tc.interests, tc.field); got != tc.want {
				t.Fatalf("interestOverlapScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExperienceScoreCapsProjectCount(t *testing.T) {
	atCap := experienceScore(3.0, maxCountedProjects)
	overCap := experienceScore(3.0, maxCountedProjects+10)
	if atCap != overCap {
		t.Fatalf("count above cap changed score: %v vs %v", atCap, overCap)
	}
}
