package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resmatch/internal/domain/match"
	"resmatch/internal/errs"
	"resmatch/internal/infrastructure/persistence/sqlite/model"
	"resmatch/internal/ports"
)

// EntityRepository reads and seeds the student/project store. The match
// subsystem only ever reads it; writes exist for the seed command and the
// CRUD layer that owns these tables.
type EntityRepository struct {
	db *gorm.DB
}

var _ ports.EntityStore = (*EntityRepository)(nil)

func NewEntityRepository(db *gorm.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

func (r *EntityRepository) GetStudent(ctx context.Context, studentID string) (match.Student, error) {
	if ctx == nil {
		return match.Student{}, errors.New("context is required")
	}

	var row model.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return match.Student{}, match.ErrStudentNotFound
		}
		return match.Student{}, errs.Wrap(err, "query student")
	}

	return mapStudent(row)
}

func (r *EntityRepository) GetProject(ctx context.Context, projectID string) (match.Project, error) {
	if ctx == nil {
		return match.Project{}, errors.New("context is required")
	}

	var row model.Project
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return match.Project{}, match.ErrProjectNotFound
		}
		return match.Project{}, errs.Wrap(err, "query project")
	}

	return mapProject(row)
}

func (r *EntityRepository) ListActiveProjects(ctx context.Context) ([]match.Project, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var rows []model.Project
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(match.ProjectActive)).
		Order("project_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query active projects")
	}

	projects := make([]match.Project, 0, len(rows))
	for _, row := range rows {
		project, err := mapProject(row)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *EntityRepository) ListStudents(ctx context.Context) ([]match.Student, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var rows []model.Student
	if err := r.db.WithContext(ctx).Order("student_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query students")
	}

	students := make([]match.Student, 0, len(rows))
	for _, row := range rows {
		student, err := mapStudent(row)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, nil
}

// UpsertStudent writes one student row, replacing any previous version.
func (r *EntityRepository) UpsertStudent(ctx context.Context, student match.Student) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if student.ID == "" {
		return errors.New("student id is required")
	}

	student = student.Normalized()
	skills, err := json.Marshal(student.Skills)
	if err != nil {
		return errs.Wrap(err, "encode skills")
	}
	interests, err := json.Marshal(student.ResearchInterests)
	if err != nil {
		return errs.Wrap(err, "encode research interests")
	}

	row := model.Student{
		StudentID:              student.ID,
		Skills:                 string(skills),
		ResearchInterests:      string(interests),
		GPA:                    student.GPA,
		Major:                  student.Major,
		AcademicBackground:     student.AcademicBackground,
		ProjectExperienceCount: student.ProjectExperienceCount,
		UpdatedAt:              time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert student")
	}
	return nil
}

// UpsertProject writes one project row, replacing any previous version.
func (r *EntityRepository) UpsertProject(ctx context.Context, project match.Project) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if project.ID == "" {
		return errors.New("project id is required")
	}

	project = project.Normalized()
	skills, err := json.Marshal(project.RequiredSkills)
	if err != nil {
		return errs.Wrap(err, "encode required skills")
	}

	row := model.Project{
		ProjectID:      project.ID,
		RequiredSkills: string(skills),
		ResearchField:  project.ResearchField,
		Description:    project.Description,
		Requirements:   project.Requirements,
		Status:         string(project.Status),
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert project")
	}
	return nil
}

func mapStudent(row model.Student) (match.Student, error) {
	var skills []string
	if err := json.Unmarshal([]byte(row.Skills), &skills); err != nil {
		return match.Student{}, errs.Wrapf(err, "decode skills for student %s", row.StudentID)
	}
	var interests []string
	if err := json.Unmarshal([]byte(row.ResearchInterests), &interests); err != nil {
		return match.Student{}, errs.Wrapf(err, "decode research interests for student %s", row.StudentID)
	}

	return match.Student{
		ID:                     row.StudentID,
		Skills:                 skills,
		ResearchInterests:      interests,
		GPA:                    row.GPA,
		Major:                  row.Major,
		AcademicBackground:     row.AcademicBackground,
		ProjectExperienceCount: row.ProjectExperienceCount,
	}.Normalized(), nil
}

func mapProject(row model.Project) (match.Project, error) {
	var skills []string
	if err := json.Unmarshal([]byte(row.RequiredSkills), &skills); err != nil {
		return match.Project{}, errs.Wrapf(err, "decode required skills for project %s", row.ProjectID)
	}

	return match.Project{
		ID:             row.ProjectID,
		RequiredSkills: skills,
		ResearchField:  row.ResearchField,
		Description:    row.Description,
		Requirements:   row.Requirements,
		Status:         match.ProjectStatus(row.Status),
	}.Normalized(), nil
}
