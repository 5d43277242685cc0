package repository

import (
	"qcm_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

// ListBank returns a teacher's unattached questions.
func (r *QuestionRepository) ListBank(teacherID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("teacher_id = ? AND qcm_id IS NULL", teacherID).
		Order("id asc").Find(&qs).Error
	return qs, err
}

// ListByQcm returns the live question set of a QCM in stable id order. This
// is the only read path the grading engine uses, so bank items can never leak
// into a graded attempt.
func (r *QuestionRepository) ListByQcm(qcmID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("qcm_id = ?", qcmID).Order("id asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Save(q *model.Question) error {
	return r.DB.Save(q).Error
}

// SetQcm moves a question between bank (nil) and a QCM in one UPDATE keyed by
// id, so a concurrent grading read never observes it in two places.
func (r *QuestionRepository) SetQcm(questionID uint, qcmID *uint) error {
	return r.DB.Model(&model.Question{}).Where("id = ?", questionID).
		Update("qcm_id", qcmID).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}
