package match

import (
	"context"
	"encoding/json"
	"log/slog"

	"resmatch/internal/bootstrap/logging"
	domainmatch "resmatch/internal/domain/match"
	"resmatch/internal/errs"
)

// cachedScore is the cache wire form of a score. Source lives outside the
// caller-facing JSON contract, so it rides in its own field here.
type cachedScore struct {
	Score  domainmatch.Score       `json:"score"`
	Source domainmatch.ScoreSource `json:"source"`
}

// cachedListEntry is one ranked-list member in cache wire form.
type cachedListEntry struct {
	ID     string                  `json:"id"`
	Score  domainmatch.Score       `json:"score"`
	Source domainmatch.ScoreSource `json:"source"`
}

// cachedList is a ranked list in cache wire form. Complete marks a list
// that covers the entire candidate set, so it satisfies any limit even
// when shorter than the request.
type cachedList struct {
	Complete bool              `json:"complete"`
	Entries  []cachedListEntry `json:"entries"`
}

// covers reports whether the cached list can serve a request for limit
// entries.
func (l cachedList) covers(limit int) bool {
	return l.Complete || len(l.Entries) >= limit
}

// cachedScore reads a pair score from the cache. Store failures and decode
// failures are logged and reported as a miss; the scoring path never
// depends on cache availability.
func (s *Service) cachedScore(ctx context.Context, key, namespace string) (domainmatch.Score, bool) {
	if s.cache == nil {
		s.miss(namespace)
		return domainmatch.Score{}, false
	}

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "cache get failed, treating as miss",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		s.miss(namespace)
		return domainmatch.Score{}, false
	}
	if !found {
		s.miss(namespace)
		return domainmatch.Score{}, false
	}

	var entry cachedScore
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		logging.Warn(ctx, "cache entry undecodable, treating as miss",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		s.miss(namespace)
		return domainmatch.Score{}, false
	}

	score := entry.Score
	score.Source = entry.Source
	s.hit(namespace)
	return score, true
}

func (s *Service) setScoreBestEffort(ctx context.Context, key string, score domainmatch.Score) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(cachedScore{Score: score, Source: score.Source})
	if err != nil {
		logging.Warn(ctx, "cache encode failed, skipping write",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return
	}

	if err := s.cache.Set(ctx, key, string(payload), s.cfg.CacheTTL); err != nil {
		logging.Warn(ctx, "cache set failed, continuing without cache",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) fetchCachedList(ctx context.Context, key, namespace string) (cachedList, bool) {
	if s.cache == nil {
		s.miss(namespace)
		return cachedList{}, false
	}

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "cache get failed, treating as miss",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		s.miss(namespace)
		return cachedList{}, false
	}
	if !found {
		s.miss(namespace)
		return cachedList{}, false
	}

	var list cachedList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logging.Warn(ctx, "cache entry undecodable, treating as miss",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		s.miss(namespace)
		return cachedList{}, false
	}

	s.hit(namespace)
	return list, true
}

// setListBestEffort writes the reverse-index membership keys BEFORE the
// list itself. If any membership write fails the list is not cached at
// all: a lost list costs one recomputation, a lost index entry would cost
// correctness (a mutation event could no longer find this list).
func (s *Service) setListBestEffort(ctx context.Context, key string, list cachedList, membershipKey func(memberID string) string) {
	if s.cache == nil {
		return
	}

	for _, entry := range list.Entries {
		if err := s.cache.Set(ctx, membershipKey(entry.ID), "1", s.cfg.CacheTTL); err != nil {
			logging.Warn(ctx, "membership index write failed, skipping list cache",
				slog.String("key", key), slog.Any("err", errs.Loggable(err)))
			return
		}
	}

	payload, err := json.Marshal(list)
	if err != nil {
		logging.Warn(ctx, "cache encode failed, skipping write",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return
	}

	if err := s.cache.Set(ctx, key, string(payload), s.cfg.CacheTTL); err != nil {
		logging.Warn(ctx, "cache set failed, continuing without cache",
			slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) hit(namespace string) {
	if s.metrics != nil {
		s.metrics.CacheHit(namespace)
	}
}

func (s *Service) miss(namespace string) {
	if s.metrics != nil {
		s.metrics.CacheMiss(namespace)
	}
}
