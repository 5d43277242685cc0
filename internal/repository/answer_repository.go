package repository

import (
	"qcm_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// CreateBatch writes the per-question response log of one submission.
func (r *AnswerRepository) CreateBatch(answers []model.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Create(&answers).Error
}
