package ports

import (
	"context"

	"resmatch/internal/domain/match"
)

// EntityStore is the read side of the external student/project store.
type EntityStore interface {
	GetStudent(ctx context.Context, studentID string) (match.Student, error)
	GetProject(ctx context.Context, projectID string) (match.Project, error)

	// ListActiveProjects enumerates candidate projects for student
	// recommendations, ordered by id.
	ListActiveProjects(ctx context.Context) ([]match.Project, error)

	// ListStudents enumerates candidate students for project rankings,
	// ordered by id.
	ListStudents(ctx context.Context) ([]match.Student, error)
}
