package ports

import (
	"context"
	"time"
)

// Cache defines the TTL-aware key-value capability usecases depend on.
// Adapters may be backed by SQLite/Redis or other stores. An entry whose
// TTL has elapsed must be reported as a miss, never returned.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// DeleteMatch removes every key matching pattern, where '*' matches
	// any run of characters, and reports how many rows went away.
	DeleteMatch(ctx context.Context, pattern string) (int64, error)

	// Keys lists the live (unexpired) keys under prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
