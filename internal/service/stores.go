package service

import (
	"time"

	"qcm_backend/internal/model"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them in production; tests plug in in-memory fakes.

type QuestionStore interface {
	Create(q *model.Question) error
	FindByID(id uint) (*model.Question, error)
	ListBank(teacherID uint) ([]model.Question, error)
	ListByQcm(qcmID uint) ([]model.Question, error)
	Save(q *model.Question) error
	SetQcm(questionID uint, qcmID *uint) error
	Delete(id uint) error
}

type QcmStore interface {
	Create(q *model.Qcm) error
	FindByID(id uint) (*model.Qcm, error)
	ListByTeacher(teacherID uint) ([]model.Qcm, error)
	ListPublished() ([]model.Qcm, error)
	Save(q *model.Qcm) error
	DeleteWithQuestions(id uint) error
}

type AnswerStore interface {
	CreateBatch(answers []model.Answer) error
}

type ResultStore interface {
	Create(res *model.Result) error
	LatestSince(studentID, qcmID uint, cutoff time.Time) (*model.Result, error)
	CountByStudentAndQcm(studentID, qcmID uint) (int64, error)
	ListByStudent(studentID uint) ([]model.Result, error)
	ListByQcm(qcmID uint) ([]model.Result, error)
}

type SubjectStore interface {
	List() ([]model.Subject, error)
	FindByID(id uint) (*model.Subject, error)
}
