package model

// Answer is the per-question raw response log written during grading. It is
// audit data only; the grading path never reads it back. ChosenOption stores
// "" for unanswered questions, never NULL.
type Answer struct {
	BaseModel
	StudentID    uint   `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	QuestionID   uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	ChosenOption string `gorm:"size:255;not null" json:"chosenOption"`
}

func (Answer) TableName() string {
	return "answers"
}
