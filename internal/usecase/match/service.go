package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resmatch/internal/bootstrap/logging"
	domainmatch "resmatch/internal/domain/match"
	"resmatch/internal/errs"
	"resmatch/internal/ports"
)

// Metric namespaces for cache hit/miss accounting.
const (
	nsPair        = "pair"
	nsStudentList = "student_list"
	nsProjectList = "project_list"
)

// Config carries the runtime policy of the orchestrator.
type Config struct {
	CacheTTL     time.Duration
	SnapshotTTL  time.Duration
	DefaultLimit int
	Weights      domainmatch.Weights
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Hour
	}
	if c.SnapshotTTL <= 0 {
		c.SnapshotTTL = 24 * time.Hour
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 10
	}
	if !c.Weights.Valid() {
		c.Weights = domainmatch.DefaultWeights
	}
	return c
}

// Service orchestrates pair scoring and ranked lists: cache-aside reads,
// model scoring with deterministic local fallback, write-through caching,
// and best-effort snapshots. A caller always gets a score; the only errors
// that escape are unknown entity ids.
type Service struct {
	entities  ports.EntityStore
	scorer    ports.PairScorer // nil when the model-backed path is disabled
	cache     ports.Cache
	snapshots ports.SnapshotStore
	metrics   ports.MatchMetrics
	cfg       Config
	flights   *flightGroup
	now       func() time.Time
}

func NewService(
	entities ports.EntityStore,
	scorer ports.PairScorer,
	cache ports.Cache,
	snapshots ports.SnapshotStore,
	metrics ports.MatchMetrics,
	cfg Config,
) *Service {
	return &Service{
		entities:  entities,
		scorer:    scorer,
		cache:     cache,
		snapshots: snapshots,
		metrics:   metrics,
		cfg:       cfg.withDefaults(),
		flights:   newFlightGroup(),
		now:       time.Now,
	}
}

// GetScore returns the compatibility score for one pair, served from the
// pair cache when fresh.
func (s *Service) GetScore(ctx context.Context, studentID, projectID string) (domainmatch.Score, error) {
	if ctx == nil {
		return domainmatch.Score{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domainmatch.Score{}, errs.Wrap(err, "check context")
	}
	if studentID == "" || projectID == "" {
		return domainmatch.Score{}, errors.New("student id and project id are required")
	}

	key := pairKey(studentID, projectID)
	if score, ok := s.cachedScore(ctx, key, nsPair); ok {
		return score, nil
	}

	student, err := s.entities.GetStudent(ctx, studentID)
	if err != nil {
		return domainmatch.Score{}, err
	}
	project, err := s.entities.GetProject(ctx, projectID)
	if err != nil {
		return domainmatch.Score{}, err
	}

	return s.scorePair(ctx, student, project)
}

// scorePair is the shared single-pair path: single-flight around a cache
// recheck, model-or-fallback computation, write-through, and snapshot.
func (s *Service) scorePair(ctx context.Context, student domainmatch.Student, project domainmatch.Project) (domainmatch.Score, error) {
	key := pairKey(student.ID, project.ID)

	return s.flights.do(ctx, key, func() (domainmatch.Score, error) {
		// A concurrent flight may have cached the pair while this caller
		// was queueing on the registry.
		if score, ok := s.cachedScore(ctx, key, nsPair); ok {
			return score, nil
		}

		score := s.compute(ctx, student, project)

		s.setScoreBestEffort(ctx, key, score)
		s.saveSnapshotBestEffort(ctx, student.ID, project.ID, score)
		return score, nil
	})
}

// compute produces a score without touching the cache. Every model-side
// failure degrades to the deterministic fallback; this function cannot
// fail.
func (s *Service) compute(ctx context.Context, student domainmatch.Student, project domainmatch.Project) domainmatch.Score {
	started := s.now()

	if s.scorer != nil {
		score, err := s.scorer.Score(ctx, student, project)
		if err == nil {
			s.observe(score, s.now().Sub(started))
			return score
		}
		logging.Warn(ctx, "model scoring failed, degrading to fallback",
			slog.String("student_id", student.ID),
			slog.String("project_id", project.ID),
			slog.Any("err", errs.Loggable(err)),
		)
	}

	score := domainmatch.FallbackScore(student, project, s.cfg.Weights)
	s.observe(score, s.now().Sub(started))
	return score
}

func (s *Service) observe(score domainmatch.Score, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ScoreProduced(string(score.Source), elapsed)
}

func (s *Service) saveSnapshotBestEffort(ctx context.Context, studentID, projectID string, score domainmatch.Score) {
	if s.snapshots == nil {
		return
	}

	computedAt := s.now()
	err := s.snapshots.SaveSnapshot(ctx, ports.MatchSnapshot{
		StudentID:  studentID,
		ProjectID:  projectID,
		Score:      score,
		ComputedAt: computedAt,
		ValidUntil: computedAt.Add(s.cfg.SnapshotTTL),
	})
	if err != nil {
		logging.Warn(ctx, "snapshot save failed",
			slog.String("student_id", studentID),
			slog.String("project_id", projectID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

// LatestSnapshot exposes the persisted last-known-good score for audit
// and analytics callers.
func (s *Service) LatestSnapshot(ctx context.Context, studentID, projectID string) (ports.MatchSnapshot, bool, error) {
	if ctx == nil {
		return ports.MatchSnapshot{}, false, errors.New("context is required")
	}
	if s.snapshots == nil {
		return ports.MatchSnapshot{}, false, nil
	}
	return s.snapshots.LatestSnapshot(ctx, studentID, projectID)
}
