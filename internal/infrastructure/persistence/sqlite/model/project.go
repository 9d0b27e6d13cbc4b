package model

type Project struct {
	ProjectID      string `gorm:"column:project_id;type:text;primaryKey"`
	RequiredSkills string `gorm:"column:required_skills;type:text;not null"`
	ResearchField  string `gorm:"column:research_field;type:text;not null"`
	Description    string `gorm:"column:description;type:text;not null"`
	Requirements   string `gorm:"column:requirements;type:text;not null"`
	Status         string `gorm:"column:status;type:text;not null;index"`
	UpdatedAt      string `gorm:"column:updated_at;type:text;not null"`
}

func (Project) TableName() string {
	return "projects"
}
