package model

// MatchKV backs the shared result cache. Expiry is stored as unix
// nanoseconds; zero means no expiry.
type MatchKV struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	CachedAt  int64  `gorm:"column:cached_at;type:integer;not null"`
	ExpiresAt int64  `gorm:"column:expires_at;type:integer;not null;index"`
}

func (MatchKV) TableName() string {
	return "match_kv"
}
