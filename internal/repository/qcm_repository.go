package repository

import (
	"qcm_backend/internal/model"

	"gorm.io/gorm"
)

type QcmRepository struct {
	DB *gorm.DB
}

func NewQcmRepository(db *gorm.DB) *QcmRepository {
	return &QcmRepository{DB: db}
}

func (r *QcmRepository) Create(q *model.Qcm) error {
	return r.DB.Create(q).Error
}

func (r *QcmRepository) FindByID(id uint) (*model.Qcm, error) {
	var q model.Qcm
	err := r.DB.Preload("Subject").First(&q, id).Error
	return &q, err
}

func (r *QcmRepository) ListByTeacher(teacherID uint) ([]model.Qcm, error) {
	var qs []model.Qcm
	err := r.DB.Preload("Subject").Where("teacher_id = ?", teacherID).
		Order("created_at desc").Find(&qs).Error
	return qs, err
}

func (r *QcmRepository) ListPublished() ([]model.Qcm, error) {
	var qs []model.Qcm
	err := r.DB.Preload("Subject").Where("published = ?", true).
		Order("created_at desc").Find(&qs).Error
	return qs, err
}

func (r *QcmRepository) Save(q *model.Qcm) error {
	return r.DB.Save(q).Error
}

// DeleteWithQuestions removes the QCM and hard-deletes its attached questions
// in one transaction. Deleted questions are not returned to the bank.
func (r *QcmRepository) DeleteWithQuestions(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("qcm_id = ?", id).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Qcm{}, id).Error
	})
}
