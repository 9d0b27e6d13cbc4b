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

// SnapshotRepository persists last-known-good pair scores with a 24h
// validity window, independent from the short-lived result cache.
type SnapshotRepository struct {
	db *gorm.DB
}

var _ ports.SnapshotStore = (*SnapshotRepository)(nil)

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot ports.MatchSnapshot) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if snapshot.StudentID == "" || snapshot.ProjectID == "" {
		return errors.New("student id and project id are required")
	}

	payload, err := json.Marshal(snapshot.Score)
	if err != nil {
		return errs.Wrap(err, "encode snapshot payload")
	}

	row := model.MatchSnapshot{
		StudentID:  snapshot.StudentID,
		ProjectID:  snapshot.ProjectID,
		Payload:    string(payload),
		Source:     string(snapshot.Score.Source),
		Overall:    snapshot.Score.Overall,
		ComputedAt: snapshot.ComputedAt.UTC().Format(time.RFC3339Nano),
		ValidUntil: snapshot.ValidUntil.UTC().Format(time.RFC3339Nano),
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "project_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert match snapshot")
	}
	return nil
}

func (r *SnapshotRepository) LatestSnapshot(ctx context.Context, studentID, projectID string) (ports.MatchSnapshot, bool, error) {
	if ctx == nil {
		return ports.MatchSnapshot{}, false, errors.New("context is required")
	}

	var row model.MatchSnapshot
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND project_id = ?", studentID, projectID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MatchSnapshot{}, false, nil
		}
		return ports.MatchSnapshot{}, false, errs.Wrap(err, "query match snapshot")
	}

	var score match.Score
	if err := json.Unmarshal([]byte(row.Payload), &score); err != nil {
		return ports.MatchSnapshot{}, false, errs.Wrap(err, "decode snapshot payload")
	}
	score.Source = match.ScoreSource(row.Source)

	computedAt, err := time.Parse(time.RFC3339Nano, row.ComputedAt)
	if err != nil {
		return ports.MatchSnapshot{}, false, errs.Wrap(err, "parse computed_at")
	}
	validUntil, err := time.Parse(time.RFC3339Nano, row.ValidUntil)
	if err != nil {
		return ports.MatchSnapshot{}, false, errs.Wrap(err, "parse valid_until")
	}

	return ports.MatchSnapshot{
		StudentID:  row.StudentID,
		ProjectID:  row.ProjectID,
		Score:      score,
		ComputedAt: computedAt,
		ValidUntil: validUntil,
	}, true, nil
}
