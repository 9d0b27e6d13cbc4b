package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/domain/match"
	"resmatch/internal/errs"
)

// scoreDTO is the caller-facing score contract; the producing source is
// deliberately not part of it.
type scoreDTO struct {
	Score           float64  `json:"score"`
	SkillMatch      float64  `json:"skillMatch"`
	InterestMatch   float64  `json:"interestMatch"`
	ExperienceMatch float64  `json:"experienceMatch"`
	Reasoning       string   `json:"reasoning"`
	MatchedSkills   []string `json:"matchedSkills"`
	Suggestions     string   `json:"suggestions"`
}

type pairScoreResponse struct {
	StudentID string   `json:"studentId"`
	ProjectID string   `json:"projectId"`
	Match     scoreDTO `json:"match"`
}

type recommendationResponse struct {
	ProjectID     string   `json:"projectId"`
	ResearchField string   `json:"researchField"`
	Description   string   `json:"description"`
	Match         scoreDTO `json:"match"`
}

type candidateResponse struct {
	StudentID string   `json:"studentId"`
	Major     string   `json:"major"`
	GPA       float64  `json:"gpa"`
	Match     scoreDTO `json:"match"`
}

type snapshotResponse struct {
	StudentID  string    `json:"studentId"`
	ProjectID  string    `json:"projectId"`
	Match      scoreDTO  `json:"match"`
	ComputedAt time.Time `json:"computedAt"`
	ValidUntil time.Time `json:"validUntil"`
}

type invalidationResponse struct {
	Processed bool `json:"processed"`
}

func toScoreDTO(score match.Score) scoreDTO {
	return scoreDTO{
		Score:           score.Overall,
		SkillMatch:      score.SkillMatch,
		InterestMatch:   score.InterestMatch,
		ExperienceMatch: score.ExperienceMatch,
		Reasoning:       score.Reasoning,
		MatchedSkills:   score.MatchedSkills,
		Suggestions:     score.Suggestions,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	projectID := chi.URLParam(r, "projectID")

	score, err := s.service.GetScore(r.Context(), studentID, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pairScoreResponse{
		StudentID: studentID,
		ProjectID: projectID,
		Match:     toScoreDTO(score),
	})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	projectID := chi.URLParam(r, "projectID")

	snapshot, found, err := s.service.LatestSnapshot(r.Context(), studentID, projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot recorded"})
		return
	}

	writeJSON(w, http.StatusOK, snapshotResponse{
		StudentID:  snapshot.StudentID,
		ProjectID:  snapshot.ProjectID,
		Match:      toScoreDTO(snapshot.Score),
		ComputedAt: snapshot.ComputedAt,
		ValidUntil: snapshot.ValidUntil,
	})
}

func (s *Server) handleStudentRecommendations(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	limit := parseLimit(r)

	recommendations, err := s.service.GetStudentRecommendations(r.Context(), studentID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]recommendationResponse, 0, len(recommendations))
	for _, rec := range recommendations {
		out = append(out, recommendationResponse{
			ProjectID:     rec.Project.ID,
			ResearchField: rec.Project.ResearchField,
			Description:   rec.Project.Description,
			Match:         toScoreDTO(rec.Score),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProjectCandidates(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	limit := parseLimit(r)

	candidates, err := s.service.GetProjectCandidates(r.Context(), projectID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]candidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, candidateResponse{
			StudentID: candidate.Student.ID,
			Major:     candidate.Student.Major,
			GPA:       candidate.Student.GPA,
			Match:     toScoreDTO(candidate.Score),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInvalidateStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.invalidator.OnStudentChanged(r.Context(), chi.URLParam(r, "studentID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invalidationResponse{Processed: true})
}

func (s *Server) handleInvalidateProject(w http.ResponseWriter, r *http.Request) {
	if err := s.invalidator.OnProjectChanged(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invalidationResponse{Processed: true})
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, match.ErrStudentNotFound) || errors.Is(err, match.ErrProjectNotFound) {
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
