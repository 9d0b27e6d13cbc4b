package ports

import (
	"context"
	"time"

	"resmatch/internal/domain/match"
)

// MatchSnapshot is the last-known-good persisted score for one pair. It is
// a longer-lived audit/analytics record, deliberately independent from the
// result cache.
type MatchSnapshot struct {
	StudentID  string
	ProjectID  string
	Score      match.Score
	ComputedAt time.Time
	ValidUntil time.Time
}

// SnapshotStore persists last-known-good scores.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot MatchSnapshot) error
	LatestSnapshot(ctx context.Context, studentID, projectID string) (MatchSnapshot, bool, error)
}
