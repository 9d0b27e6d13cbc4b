package model

// MatchSnapshot is the persisted last-known-good score for one pair,
// independent from the result cache (longer validity, audit/analytics use).
type MatchSnapshot struct {
	StudentID  string  `gorm:"column:student_id;type:text;primaryKey"`
	ProjectID  string  `gorm:"column:project_id;type:text;primaryKey"`
	Payload    string  `gorm:"column:payload;type:text;not null"`
	Source     string  `gorm:"column:source;type:text;not null"`
	Overall    float64 `gorm:"column:overall;type:real;not null"`
	ComputedAt string  `gorm:"column:computed_at;type:text;not null"`
	ValidUntil string  `gorm:"column:valid_until;type:text;not null"`
}

func (MatchSnapshot) TableName() string {
	return "match_snapshots"
}
