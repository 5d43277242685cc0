package service

import (
	"errors"
	"time"

	"qcm_backend/internal/model"
	"qcm_backend/internal/util"

	"gorm.io/gorm"
)

// CompositionService owns authoring: questions (bank and attached), QCMs, and
// the move operations between the two. Every mutation is ownership-checked
// against the requesting teacher.
type CompositionService struct {
	Questions QuestionStore
	Qcms      QcmStore
	Subjects  SubjectStore
}

func NewCompositionService(questions QuestionStore, qcms QcmStore, subjects SubjectStore) *CompositionService {
	return &CompositionService{Questions: questions, Qcms: qcms, Subjects: subjects}
}

// QuestionKind tags the two states a question can be in at the service
// boundary, so callers cannot mistake a bank item for a gradable one.
type QuestionKind string

const (
	BankQuestion     QuestionKind = "bank"
	AttachedQuestion QuestionKind = "attached"
)

// QuestionView is the external shape of a question.
type QuestionView struct {
	ID            uint         `json:"id"`
	Kind          QuestionKind `json:"kind"`
	TeacherID     uint         `json:"teacherId"`
	QcmID         *uint        `json:"qcmId,omitempty"`
	Text          string       `json:"text"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Difficulty    *string      `json:"difficulty,omitempty"`
	ImageURL      *string      `json:"imageUrl,omitempty"`
}

func questionView(q *model.Question) *QuestionView {
	v := &QuestionView{
		ID:            q.ID,
		Kind:          BankQuestion,
		TeacherID:     q.TeacherID,
		QcmID:         q.QcmID,
		Text:          q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		ImageURL:      q.ImageURL,
	}
	if !q.IsBank() {
		v.Kind = AttachedQuestion
	}
	return v
}

type QuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Explanation   string   `json:"explanation"`
	Difficulty    *string  `json:"difficulty"`
	ImageURL      *string  `json:"image_url"`
}

// QuestionUpdateRequest carries partial updates; nil fields keep the stored
// value. The merged record is re-validated as a whole.
type QuestionUpdateRequest struct {
	Text          *string   `json:"text"`
	Options       *[]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
	Explanation   *string   `json:"explanation"`
	Difficulty    *string   `json:"difficulty"`
	ImageURL      *string   `json:"image_url"`
}

const (
	minOptions = 2
	maxOptions = 6
)

func validateQuestionFields(options []string, correctAnswer string, difficulty *string) error {
	if len(options) < minOptions || len(options) > maxOptions {
		return util.Validationf("options must contain between %d and %d entries, got %d",
			minOptions, maxOptions, len(options))
	}
	found := false
	for _, opt := range options {
		if opt == correctAnswer {
			found = true
			break
		}
	}
	if !found {
		return util.Validationf("correct_answer must equal one of the options")
	}
	if difficulty != nil {
		switch *difficulty {
		case "easy", "medium", "hard":
		default:
			return util.Validationf("difficulty must be one of easy, medium, hard")
		}
	}
	return nil
}

// CreateBankQuestion adds an unattached question to the teacher's bank.
func (s *CompositionService) CreateBankQuestion(teacherID uint, req QuestionRequest) (*QuestionView, error) {
	if err := validateQuestionFields(req.Options, req.CorrectAnswer, req.Difficulty); err != nil {
		return nil, err
	}

	q := &model.Question{
		TeacherID:     teacherID,
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Difficulty:    req.Difficulty,
		ImageURL:      req.ImageURL,
	}
	if err := s.Questions.Create(q); err != nil {
		return nil, err
	}
	return questionView(q), nil
}

// AddQuestionToQcm creates a question directly inside a QCM. The question is
// stamped with the QCM owner's id so bank-level ownership checks keep working
// after a later unassign.
func (s *CompositionService) AddQuestionToQcm(requesterID, qcmID uint, req QuestionRequest) (*QuestionView, error) {
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return nil, err
	}
	if qcm.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}
	if err := validateQuestionFields(req.Options, req.CorrectAnswer, req.Difficulty); err != nil {
		return nil, err
	}

	q := &model.Question{
		TeacherID:     qcm.TeacherID,
		QcmID:         &qcm.ID,
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Difficulty:    req.Difficulty,
		ImageURL:      req.ImageURL,
	}
	if err := s.Questions.Create(q); err != nil {
		return nil, err
	}
	return questionView(q), nil
}

func (s *CompositionService) ListBank(teacherID uint) ([]QuestionView, error) {
	qs, err := s.Questions.ListBank(teacherID)
	if err != nil {
		return nil, err
	}
	views := make([]QuestionView, len(qs))
	for i := range qs {
		views[i] = *questionView(&qs[i])
	}
	return views, nil
}

func (s *CompositionService) GetQuestion(requesterID, questionID uint) (*QuestionView, error) {
	q, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if q.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}
	return questionView(q), nil
}

func (s *CompositionService) UpdateQuestion(requesterID, questionID uint, req QuestionUpdateRequest) (*QuestionView, error) {
	q, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if q.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}

	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.Options != nil {
		q.Options = *req.Options
	}
	if req.CorrectAnswer != nil {
		q.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}
	if req.Difficulty != nil {
		q.Difficulty = req.Difficulty
	}
	if req.ImageURL != nil {
		q.ImageURL = req.ImageURL
	}

	if err := validateQuestionFields(q.Options, q.CorrectAnswer, q.Difficulty); err != nil {
		return nil, err
	}
	if err := s.Questions.Save(q); err != nil {
		return nil, err
	}
	return questionView(q), nil
}

// DeleteQuestion removes a question regardless of attachment state. Deleting
// an attached question shrinks its QCM's live question set, and with it the
// denominator used for scoring later submissions.
func (s *CompositionService) DeleteQuestion(requesterID, questionID uint) error {
	q, err := s.findQuestion(questionID)
	if err != nil {
		return err
	}
	if q.TeacherID != requesterID {
		return util.ErrForbidden
	}
	return s.Questions.Delete(questionID)
}

// AttachQuestion moves a question into a QCM. Attachment is single-slot:
// re-attaching an already-attached question simply moves it, last writer
// wins. The requester must own both the question and the target QCM.
func (s *CompositionService) AttachQuestion(requesterID, questionID, qcmID uint) (*QuestionView, error) {
	q, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return nil, err
	}
	if q.TeacherID != requesterID || qcm.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}

	if err := s.Questions.SetQcm(questionID, &qcm.ID); err != nil {
		return nil, err
	}
	q.QcmID = &qcm.ID
	return questionView(q), nil
}

// UnassignQuestion returns an attached question to its owner's bank.
func (s *CompositionService) UnassignQuestion(requesterID, questionID uint) (*QuestionView, error) {
	q, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if q.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}
	if q.IsBank() {
		return nil, util.ErrInvalidState
	}

	if err := s.Questions.SetQcm(questionID, nil); err != nil {
		return nil, err
	}
	q.QcmID = nil
	return questionView(q), nil
}

type QcmRequest struct {
	Title        string     `json:"title" binding:"required"`
	SubjectID    *uint      `json:"subject_id"`
	Description  string     `json:"description"`
	Duration     *int       `json:"duration"`
	Difficulty   *string    `json:"difficulty"`
	MaxAttempts  *int       `json:"max_attempts"`
	StartAt      *time.Time `json:"start_at"`
	EndAt        *time.Time `json:"end_at"`
	PassingScore *int       `json:"passing_score"`
}

type QcmUpdateRequest struct {
	Title        *string    `json:"title"`
	SubjectID    *uint      `json:"subject_id"`
	Description  *string    `json:"description"`
	Published    *bool      `json:"published"`
	Duration     *int       `json:"duration"`
	Difficulty   *string    `json:"difficulty"`
	MaxAttempts  *int       `json:"max_attempts"`
	StartAt      *time.Time `json:"start_at"`
	EndAt        *time.Time `json:"end_at"`
	PassingScore *int       `json:"passing_score"`
}

func validateQcmFields(startAt, endAt *time.Time, passingScore *int) error {
	if startAt != nil && endAt != nil && !endAt.After(*startAt) {
		return util.Validationf("end_at must be after start_at")
	}
	if passingScore != nil && (*passingScore < 0 || *passingScore > 100) {
		return util.Validationf("passing_score must be between 0 and 100")
	}
	return nil
}

func (s *CompositionService) CreateQcm(teacherID uint, req QcmRequest) (*model.Qcm, error) {
	if err := validateQcmFields(req.StartAt, req.EndAt, req.PassingScore); err != nil {
		return nil, err
	}
	if req.SubjectID != nil {
		if _, err := s.Subjects.FindByID(*req.SubjectID); err != nil {
			return nil, util.Validationf("unknown subject %d", *req.SubjectID)
		}
	}

	qcm := &model.Qcm{
		TeacherID:    teacherID,
		Title:        req.Title,
		SubjectID:    req.SubjectID,
		Description:  req.Description,
		Duration:     req.Duration,
		Difficulty:   req.Difficulty,
		MaxAttempts:  req.MaxAttempts,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		PassingScore: req.PassingScore,
	}
	if err := s.Qcms.Create(qcm); err != nil {
		return nil, err
	}
	return qcm, nil
}

func (s *CompositionService) UpdateQcm(requesterID, qcmID uint, req QcmUpdateRequest) (*model.Qcm, error) {
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return nil, err
	}
	if qcm.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}

	if req.Title != nil {
		qcm.Title = *req.Title
	}
	if req.SubjectID != nil {
		if _, err := s.Subjects.FindByID(*req.SubjectID); err != nil {
			return nil, util.Validationf("unknown subject %d", *req.SubjectID)
		}
		qcm.SubjectID = req.SubjectID
	}
	if req.Description != nil {
		qcm.Description = *req.Description
	}
	if req.Published != nil {
		qcm.Published = *req.Published
	}
	if req.Duration != nil {
		qcm.Duration = req.Duration
	}
	if req.Difficulty != nil {
		qcm.Difficulty = req.Difficulty
	}
	if req.MaxAttempts != nil {
		qcm.MaxAttempts = req.MaxAttempts
	}
	if req.StartAt != nil {
		qcm.StartAt = req.StartAt
	}
	if req.EndAt != nil {
		qcm.EndAt = req.EndAt
	}
	if req.PassingScore != nil {
		qcm.PassingScore = req.PassingScore
	}

	if err := validateQcmFields(qcm.StartAt, qcm.EndAt, qcm.PassingScore); err != nil {
		return nil, err
	}
	if err := s.Qcms.Save(qcm); err != nil {
		return nil, err
	}
	return qcm, nil
}

// DeleteQcm removes the QCM and its attached questions for good; they are not
// returned to the bank.
func (s *CompositionService) DeleteQcm(requesterID, qcmID uint) error {
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return err
	}
	if qcm.TeacherID != requesterID {
		return util.ErrForbidden
	}
	return s.Qcms.DeleteWithQuestions(qcmID)
}

// TeacherQcmDetail is a QCM with its full question set, correct answers
// included. Teacher-only.
type TeacherQcmDetail struct {
	Qcm       *model.Qcm     `json:"qcm"`
	Questions []QuestionView `json:"questions"`
}

func (s *CompositionService) GetQcmForTeacher(requesterID, qcmID uint) (*TeacherQcmDetail, error) {
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return nil, err
	}
	if qcm.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}
	qs, err := s.Questions.ListByQcm(qcmID)
	if err != nil {
		return nil, err
	}
	views := make([]QuestionView, len(qs))
	for i := range qs {
		views[i] = *questionView(&qs[i])
	}
	return &TeacherQcmDetail{Qcm: qcm, Questions: views}, nil
}

func (s *CompositionService) ListQcmsForTeacher(teacherID uint) ([]model.Qcm, error) {
	return s.Qcms.ListByTeacher(teacherID)
}

// StudentQuestionView strips the correct answer and explanation.
type StudentQuestionView struct {
	ID         uint     `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty *string  `json:"difficulty,omitempty"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
}

type StudentQcmView struct {
	Qcm       *model.Qcm            `json:"qcm"`
	Questions []StudentQuestionView `json:"questions"`
}

func (s *CompositionService) ListPublishedQcms() ([]model.Qcm, error) {
	return s.Qcms.ListPublished()
}

// GetPublishedQcm returns the student-facing view of one published QCM.
// Unpublished QCMs are indistinguishable from absent ones.
func (s *CompositionService) GetPublishedQcm(qcmID uint) (*StudentQcmView, error) {
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return nil, err
	}
	if !qcm.Published {
		return nil, util.ErrNotFound
	}
	qs, err := s.Questions.ListByQcm(qcmID)
	if err != nil {
		return nil, err
	}
	views := make([]StudentQuestionView, len(qs))
	for i, q := range qs {
		views[i] = StudentQuestionView{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Difficulty: q.Difficulty,
			ImageURL:   q.ImageURL,
		}
	}
	return &StudentQcmView{Qcm: qcm, Questions: views}, nil
}

// AssertOpenForStudent performs the publication and scheduling-window checks
// at the transport boundary. The grading engine itself trusts that these were
// done before Submit is called.
func (s *CompositionService) AssertOpenForStudent(qcmID uint, now time.Time) error {
	qcm, err := s.findQcm(qcmID)
	if err != nil {
		return err
	}
	if !qcm.Published {
		return util.ErrNotFound
	}
	if qcm.StartAt != nil && now.Before(*qcm.StartAt) {
		return util.ErrInvalidState
	}
	if qcm.EndAt != nil && now.After(*qcm.EndAt) {
		return util.ErrInvalidState
	}
	return nil
}

func (s *CompositionService) ListSubjects() ([]model.Subject, error) {
	return s.Subjects.List()
}

func (s *CompositionService) findQuestion(id uint) (*model.Question, error) {
	q, err := s.Questions.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *CompositionService) findQcm(id uint) (*model.Qcm, error) {
	qcm, err := s.Qcms.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return qcm, nil
}
