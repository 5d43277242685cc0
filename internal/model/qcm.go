package model

import "time"

// DefaultPassingScore applies when a QCM has no explicit passing score.
const DefaultPassingScore = 50

// Qcm is a multiple-choice assessment owned by one teacher. Students only see
// it once Published is true; StartAt/EndAt optionally bound the attempt window.
// swagger:model Qcm
type Qcm struct {
	BaseModel
	TeacherID    uint       `gorm:"index;type:bigint unsigned;not null" json:"teacherId"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	SubjectID    *uint      `gorm:"index;type:bigint unsigned" json:"subjectId,omitempty"`
	Subject      *Subject   `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Description  string     `gorm:"type:text" json:"description"`
	Published    bool       `gorm:"default:false" json:"published"`
	Duration     *int       `json:"duration,omitempty"` // Minutes
	Difficulty   *string    `gorm:"size:20" json:"difficulty,omitempty"`
	MaxAttempts  *int       `json:"maxAttempts,omitempty"`
	StartAt      *time.Time `json:"startAt,omitempty"`
	EndAt        *time.Time `json:"endAt,omitempty"`
	PassingScore *int       `json:"passingScore,omitempty"` // 0..100, nil means DefaultPassingScore
}

func (Qcm) TableName() string {
	return "qcms"
}

// EffectivePassingScore resolves the nullable column to the grading threshold.
func (q *Qcm) EffectivePassingScore() int {
	if q.PassingScore != nil {
		return *q.PassingScore
	}
	return DefaultPassingScore
}
