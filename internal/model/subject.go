package model

// Subject is a flat lookup table; it carries no timestamps.
// swagger:model Subject
type Subject struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;unique;not null" json:"name"`
}

func (Subject) TableName() string {
	return "subjects"
}
