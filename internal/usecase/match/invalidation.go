package match

import (
	"context"
	"errors"
	"log/slog"

	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/errs"
	"resmatch/internal/ports"
)

// InvalidationCoordinator removes possibly-stale cache entries when a
// student profile or a project definition mutates. Pair scores are
// deleted exactly by key pattern. Ranked lists on the opposite axis are
// deleted through the membership reverse index, which never
// under-invalidates because lists are only cached after their index
// entries are durable; if the index scan itself fails the coordinator
// falls back to wiping the whole opposite-axis namespace.
type InvalidationCoordinator struct {
	cache   ports.Cache
	metrics ports.MatchMetrics
}

func NewInvalidationCoordinator(cache ports.Cache, metrics ports.MatchMetrics) *InvalidationCoordinator {
	return &InvalidationCoordinator{cache: cache, metrics: metrics}
}

// OnStudentChanged drops the student's own ranked list, every pair score
// involving the student, and every project candidate list that ranked the
// student.
func (c *InvalidationCoordinator) OnStudentChanged(ctx context.Context, studentID string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if studentID == "" {
		return errors.New("student id is required")
	}
	if c.cache == nil {
		return nil
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "match.invalidation"), slog.String("student_id", studentID))
	var removed int64

	removed += c.deleteKey(logCtx, studentListKey(studentID))
	removed += c.deleteMatch(logCtx, projectMembershipPrefix+"*:slist:"+studentID)
	removed += c.deleteMatch(logCtx, studentPairPattern(studentID))
	removed += c.dropListsByMembership(logCtx,
		studentMembershipPrefix+studentID+":plist:",
		projectListKey,
		projectListPrefix+"*",
	)

	c.observe("student", removed)
	logging.Info(logCtx, "student invalidation processed", slog.Int64("entries_removed", removed))
	return nil
}

// OnProjectChanged is the symmetric operation for project mutations.
func (c *InvalidationCoordinator) OnProjectChanged(ctx context.Context, projectID string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if projectID == "" {
		return errors.New("project id is required")
	}
	if c.cache == nil {
		return nil
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "match.invalidation"), slog.String("project_id", projectID))
	var removed int64

	removed += c.deleteKey(logCtx, projectListKey(projectID))
	removed += c.deleteMatch(logCtx, studentMembershipPrefix+"*:plist:"+projectID)
	removed += c.deleteMatch(logCtx, projectPairPattern(projectID))
	removed += c.dropListsByMembership(logCtx,
		projectMembershipPrefix+projectID+":slist:",
		studentListKey,
		studentListPrefix+"*",
	)

	c.observe("project", removed)
	logging.Info(logCtx, "project invalidation processed", slog.Int64("entries_removed", removed))
	return nil
}

// dropListsByMembership deletes only the opposite-axis lists whose
// membership index mentions the mutated entity. A failed index scan
// degrades to the conservative blanket wipe of the whole namespace.
func (c *InvalidationCoordinator) dropListsByMembership(ctx context.Context, indexPrefix string, listKey func(id string) string, blanketPattern string) int64 {
	indexKeys, err := c.cache.Keys(ctx, indexPrefix)
	if err != nil {
		logging.Warn(ctx, "membership index scan failed, wiping opposite-axis lists",
			slog.Any("err", errs.Loggable(err)))
		return c.deleteMatch(ctx, blanketPattern)
	}

	var removed int64
	for _, indexKey := range indexKeys {
		counterpartID := trailingID(indexKey)
		if counterpartID == "" {
			continue
		}
		removed += c.deleteKey(ctx, listKey(counterpartID))
		removed += c.deleteKey(ctx, indexKey)
	}
	return removed
}

func (c *InvalidationCoordinator) deleteKey(ctx context.Context, key string) int64 {
	if err := c.cache.Delete(ctx, key); err != nil {
		logging.Warn(ctx, "cache delete failed",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return 0
	}
	return 1
}

func (c *InvalidationCoordinator) deleteMatch(ctx context.Context, pattern string) int64 {
	count, err := c.cache.DeleteMatch(ctx, pattern)
	if err != nil {
		logging.Warn(ctx, "cache pattern delete failed",
			slog.String("pattern", pattern), slog.Any("err", errs.Loggable(err)))
		return 0
	}
	return count
}

func (c *InvalidationCoordinator) observe(axis string, removed int64) {
	if c.metrics != nil {
		c.metrics.InvalidationDeletes(axis, removed)
	}
}
