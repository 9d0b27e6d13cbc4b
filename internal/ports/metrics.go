package ports

import "time"

// MatchMetrics receives subsystem observability signals. Implementations
// must tolerate being called from concurrent request handlers.
type MatchMetrics interface {
	ScoreProduced(source string, elapsed time.Duration)
	CacheHit(namespace string)
	CacheMiss(namespace string)
	InvalidationDeletes(axis string, count int64)
}
