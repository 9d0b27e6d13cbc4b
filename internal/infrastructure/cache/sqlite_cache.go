package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resmatch/internal/errs"
	"resmatch/internal/infrastructure/persistence/sqlite/model"
	"resmatch/internal/ports"
)

// SQLiteCache is a TTL-aware key-value store over the match_kv table.
// Expiry is a hard boundary on the read path: a row past its expires_at is
// reported as a miss and lazily deleted.
type SQLiteCache struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.Cache = (*SQLiteCache)(nil)

func NewSQLiteCache(db *gorm.DB) *SQLiteCache {
	return &SQLiteCache{db: db, now: time.Now}
}

// WithClock overrides the time source. Tests use it to cross TTL
// boundaries without sleeping.
func (c *SQLiteCache) WithClock(now func() time.Time) *SQLiteCache {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := c.checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	var row model.MatchKV
	if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	if row.ExpiresAt > 0 && row.ExpiresAt <= c.now().UnixNano() {
		// Lazy reap; the entry is already dead either way.
		_ = c.db.WithContext(ctx).
			Where("key = ? AND expires_at = ?", trimmedKey, row.ExpiresAt).
			Delete(&model.MatchKV{}).Error
		return "", false, nil
	}

	return row.Value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	trimmedKey, err := c.checkKey(ctx, key)
	if err != nil {
		return err
	}

	cachedAt := c.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = cachedAt.Add(ttl).UnixNano()
	}

	row := model.MatchKV{
		Key:       trimmedKey,
		Value:     value,
		CachedAt:  cachedAt.UnixNano(),
		ExpiresAt: expiresAt,
	}

	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"cached_at":  row.CachedAt,
			"expires_at": row.ExpiresAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}

	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := c.checkKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Delete(&model.MatchKV{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}

func (c *SQLiteCache) DeleteMatch(ctx context.Context, pattern string) (int64, error) {
	trimmedPattern, err := c.checkKey(ctx, pattern)
	if err != nil {
		return 0, err
	}

	res := c.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '\\'", wildcardToLike(trimmedPattern)).
		Delete(&model.MatchKV{})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "delete cache keys by pattern")
	}
	return res.RowsAffected, nil
}

func (c *SQLiteCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	trimmedPrefix, err := c.checkKey(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	if err := c.db.WithContext(ctx).
		Model(&model.MatchKV{}).
		Where("key LIKE ? ESCAPE '\\'", wildcardToLike(trimmedPrefix)+"%").
		Where("expires_at = 0 OR expires_at > ?", c.now().UnixNano()).
		Order("key asc").
		Pluck("key", &keys).Error; err != nil {
		return nil, errs.Wrap(err, "query cache keys by prefix")
	}
	return keys, nil
}

func (c *SQLiteCache) checkKey(ctx context.Context, key string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("key is required")
	}
	return trimmed, nil
}

// wildcardToLike converts the '*' wildcard contract to a SQL LIKE pattern,
// escaping LIKE metacharacters in the literal parts.
func wildcardToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteByte('%')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
