package match

import (
	"context"
	"errors"

	domainmatch "resmatch/internal/domain/match"
	"resmatch/internal/errs"
)

// ProjectRecommendation is one entry of a student's ranked project list.
type ProjectRecommendation struct {
	Project domainmatch.Project
	Score   domainmatch.Score
}

// StudentCandidate is one entry of a project's ranked applicant list.
type StudentCandidate struct {
	Student domainmatch.Student
	Score   domainmatch.Score
}

// GetStudentRecommendations returns the top projects for a student,
// descending by score with ascending project id on ties. Only active
// projects are considered. A model failure for one project degrades that
// project to the fallback scorer and never aborts the list.
func (s *Service) GetStudentRecommendations(ctx context.Context, studentID string, limit int) ([]ProjectRecommendation, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if studentID == "" {
		return nil, errors.New("student id is required")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	key := studentListKey(studentID)
	if list, ok := s.fetchCachedList(ctx, key, nsStudentList); ok && list.covers(limit) {
		if recs, ok := s.hydrateRecommendations(ctx, list.Entries, limit); ok {
			return recs, nil
		}
	}

	student, err := s.entities.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	projects, err := s.entities.ListActiveProjects(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "enumerate active projects")
	}

	entries := make([]domainmatch.RankedEntry, 0, len(projects))
	byID := make(map[string]domainmatch.Project, len(projects))
	for _, project := range projects {
		score, err := s.scorePair(ctx, student, project)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domainmatch.RankedEntry{ID: project.ID, Score: score})
		byID[project.ID] = project
	}

	domainmatch.SortRanked(entries)
	complete := len(entries) <= limit
	entries = domainmatch.Truncate(entries, limit)

	cached := make([]cachedListEntry, 0, len(entries))
	recommendations := make([]ProjectRecommendation, 0, len(entries))
	for _, entry := range entries {
		cached = append(cached, cachedListEntry{ID: entry.ID, Score: entry.Score, Source: entry.Score.Source})
		recommendations = append(recommendations, ProjectRecommendation{Project: byID[entry.ID], Score: entry.Score})
	}

	s.setListBestEffort(ctx, key, cachedList{Complete: complete, Entries: cached}, func(memberID string) string {
		return projectMembershipKey(memberID, studentID)
	})

	return recommendations, nil
}

// GetProjectCandidates returns the top students for a project, symmetric
// to GetStudentRecommendations.
func (s *Service) GetProjectCandidates(ctx context.Context, projectID string, limit int) ([]StudentCandidate, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if projectID == "" {
		return nil, errors.New("project id is required")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	key := projectListKey(projectID)
	if list, ok := s.fetchCachedList(ctx, key, nsProjectList); ok && list.covers(limit) {
		if candidates, ok := s.hydrateCandidates(ctx, list.Entries, limit); ok {
			return candidates, nil
		}
	}

	project, err := s.entities.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	students, err := s.entities.ListStudents(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "enumerate students")
	}

	entries := make([]domainmatch.RankedEntry, 0, len(students))
	byID := make(map[string]domainmatch.Student, len(students))
	for _, student := range students {
		score, err := s.scorePair(ctx, student, project)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domainmatch.RankedEntry{ID: student.ID, Score: score})
		byID[student.ID] = student
	}

	domainmatch.SortRanked(entries)
	complete := len(entries) <= limit
	entries = domainmatch.Truncate(entries, limit)

	cached := make([]cachedListEntry, 0, len(entries))
	candidates := make([]StudentCandidate, 0, len(entries))
	for _, entry := range entries {
		cached = append(cached, cachedListEntry{ID: entry.ID, Score: entry.Score, Source: entry.Score.Source})
		candidates = append(candidates, StudentCandidate{Student: byID[entry.ID], Score: entry.Score})
	}

	s.setListBestEffort(ctx, key, cachedList{Complete: complete, Entries: cached}, func(memberID string) string {
		return studentMembershipKey(memberID, projectID)
	})

	return candidates, nil
}

// hydrateRecommendations resolves cached list entries back to project
// entities. A vanished project makes the cached list unusable; the caller
// recomputes.
func (s *Service) hydrateRecommendations(ctx context.Context, entries []cachedListEntry, limit int) ([]ProjectRecommendation, bool) {
	if len(entries) > limit {
		entries = entries[:limit]
	}

	recommendations := make([]ProjectRecommendation, 0, len(entries))
	for _, entry := range entries {
		project, err := s.entities.GetProject(ctx, entry.ID)
		if err != nil {
			return nil, false
		}
		score := entry.Score
		score.Source = entry.Source
		recommendations = append(recommendations, ProjectRecommendation{Project: project, Score: score})
	}
	return recommendations, true
}

func (s *Service) hydrateCandidates(ctx context.Context, entries []cachedListEntry, limit int) ([]StudentCandidate, bool) {
	if len(entries) > limit {
		entries = entries[:limit]
	}

	candidates := make([]StudentCandidate, 0, len(entries))
	for _, entry := range entries {
		student, err := s.entities.GetStudent(ctx, entry.ID)
		if err != nil {
			return nil, false
		}
		score := entry.Score
		score.Source = entry.Source
		candidates = append(candidates, StudentCandidate{Student: student, Score: score})
	}
	return candidates, true
}
