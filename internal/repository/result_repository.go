package repository

import (
	"errors"
	"time"

	"qcm_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(res *model.Result) error {
	return r.DB.Create(res).Error
}

// LatestSince returns the newest result for (student, qcm) created at or
// after the cutoff, or nil when there is none.
func (r *ResultRepository) LatestSince(studentID, qcmID uint, cutoff time.Time) (*model.Result, error) {
	var res model.Result
	err := r.DB.Where("student_id = ? AND qcm_id = ? AND created_at >= ?",
		studentID, qcmID, cutoff).
		Order("created_at desc").First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ResultRepository) CountByStudentAndQcm(studentID, qcmID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Result{}).
		Where("student_id = ? AND qcm_id = ?", studentID, qcmID).
		Count(&count).Error
	return count, err
}

func (r *ResultRepository) ListByStudent(studentID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Preload("Qcm").Where("student_id = ?", studentID).
		Order("created_at desc").Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListByQcm(qcmID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.DB.Preload("Student").Where("qcm_id = ?", qcmID).
		Order("created_at desc").Find(&results).Error
	return results, err
}
