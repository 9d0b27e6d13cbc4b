package model

type Student struct {
	StudentID              string  `gorm:"column:student_id;type:text;primaryKey"`
	Skills                 string  `gorm:"column:skills;type:text;not null"`
	ResearchInterests      string  `gorm:"column:research_interests;type:text;not null"`
	GPA                    float64 `gorm:"column:gpa;type:real;not null"`
	Major                  string  `gorm:"column:major;type:text;not null"`
	AcademicBackground     string  `gorm:"column:academic_background;type:text;not null"`
	ProjectExperienceCount int     `gorm:"column:project_experience_count;type:integer;not null"`
	UpdatedAt              string  `gorm:"column:updated_at;type:text;not null"`
}

func (Student) TableName() string {
	return "students"
}
