package ports

import (
	"context"

	"resmatch/internal/domain/match"
)

// PairScorer rates one (student, project) pair. Implementations must not
// touch the cache; caching policy lives in the orchestrating usecase.
type PairScorer interface {
	Score(ctx context.Context, student match.Student, project match.Project) (match.Score, error)
}
