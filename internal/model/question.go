package model

// Question lives in exactly one of two places: the owning teacher's bank
// (QcmID nil) or attached to a single QCM (QcmID set). Moving it between the
// two only ever rewrites QcmID; there is no "copy" state.
// swagger:model Question
type Question struct {
	BaseModel
	TeacherID     uint     `gorm:"index;type:bigint unsigned;not null" json:"teacherId"`
	QcmID         *uint    `gorm:"index;type:bigint unsigned" json:"qcmId,omitempty"`
	Text          string   `gorm:"type:text;not null" json:"text"`
	Options       []string `gorm:"type:json;serializer:json" json:"options"`
	CorrectAnswer string   `gorm:"size:255;not null" json:"correctAnswer"`
	Explanation   string   `gorm:"type:text" json:"explanation"`
	Difficulty    *string  `gorm:"size:20" json:"difficulty,omitempty"`
	ImageURL      *string  `gorm:"size:255" json:"imageUrl,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// IsBank reports whether the question is an unattached bank item.
func (q *Question) IsBank() bool {
	return q.QcmID == nil
}
