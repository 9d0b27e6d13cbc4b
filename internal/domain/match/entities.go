package match

import "strings"

// ProjectStatus mirrors the status values of the external project store.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectArchived ProjectStatus = "archived"
)

// Student is the read-only entity shape the scorer consumes. Optional
// fields are normalized to empty values, never nil.
type Student struct {
	ID                     string
	Skills                 []string
	ResearchInterests      []string
	GPA                    float64
	Major                  string
	AcademicBackground     string
	ProjectExperienceCount int
}

// Project is the read-only entity shape the scorer consumes.
type Project struct {
	ID             string
	RequiredSkills []string
	ResearchField  string
	Description    string
	Requirements   string
	Status         ProjectStatus
}

// Normalized returns a copy with nil slices replaced by empty ones and
// surrounding whitespace stripped from free-text fields.
func (s Student) Normalized() Student {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.ResearchInterests == nil {
		s.ResearchInterests = []string{}
	}
	s.Major = strings.TrimSpace(s.Major)
	s.AcademicBackground = strings.TrimSpace(s.AcademicBackground)
	return s
}

// Normalized returns a copy with nil slices replaced by empty ones.
func (p Project) Normalized() Project {
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	p.ResearchField = strings.TrimSpace(p.ResearchField)
	p.Description = strings.TrimSpace(p.Description)
	p.Requirements = strings.TrimSpace(p.Requirements)
	return p
}

func (p Project) IsActive() bool {
	return p.Status == ProjectActive
}
