package model

// QuestionFeedback is one entry of a Result's ordered feedback list. Chosen is
// nil when the student left the question unanswered.
type QuestionFeedback struct {
	QuestionID    uint    `json:"question_id"`
	Correct       bool    `json:"correct"`
	CorrectAnswer string  `json:"correct_answer"`
	Chosen        *string `json:"chosen"`
	Explanation   string  `json:"explanation"`
}

// Result is one graded attempt. Rows are immutable: nothing in the normal
// flow updates or deletes them.
// swagger:model Result
type Result struct {
	BaseModel
	StudentID uint               `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	Student   *User              `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	QcmID     uint               `gorm:"index;type:bigint unsigned;not null" json:"qcmId"`
	Qcm       *Qcm               `gorm:"foreignKey:QcmID" json:"qcm,omitempty"`
	Score     int                `gorm:"not null" json:"score"`
	Feedback  []QuestionFeedback `gorm:"type:json;serializer:json" json:"feedback"`
	Passed    bool               `gorm:"default:false" json:"passed"`
	Duration  *int               `json:"duration,omitempty"` // client-reported seconds, not server-measured
}

func (Result) TableName() string {
	return "results"
}
