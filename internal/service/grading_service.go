package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"qcm_backend/internal/model"
	"qcm_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SubmitDedupWindow suppresses duplicate submissions for the same
// (student, qcm) pair. Duplicates come from a client auto-submit racing a
// manual submit, so the window is short; a retake after it is a new attempt.
const SubmitDedupWindow = 10 * time.Second

// GradingService grades one submission against a QCM's live question set and
// persists the immutable Result plus the per-question answer log.
type GradingService struct {
	Qcms      QcmStore
	Questions QuestionStore
	Answers   AnswerStore
	Results   ResultStore
	Redis     *redis.Client // optional submit lock; nil degrades to read-then-write

	now func() time.Time
}

func NewGradingService(qcms QcmStore, questions QuestionStore, answers AnswerStore, results ResultStore, rdb *redis.Client) *GradingService {
	return &GradingService{
		Qcms:      qcms,
		Questions: questions,
		Answers:   answers,
		Results:   results,
		Redis:     rdb,
		now:       time.Now,
	}
}

type SubmittedAnswer struct {
	QuestionID   uint    `json:"question_id"`
	ChosenOption *string `json:"chosen_option"`
}

type SubmitRequest struct {
	Answers        []SubmittedAnswer `json:"answers"`
	ElapsedSeconds *int              `json:"elapsed_seconds"`
}

// AttemptResult is the only externally visible artifact of an attempt.
type AttemptResult struct {
	ResultID uint                     `json:"result_id"`
	Score    int                      `json:"score"`
	Passed   bool                     `json:"passed"`
	Duration *int                     `json:"duration"`
	Feedback []model.QuestionFeedback `json:"feedback"`
}

// Submit grades the answer set against the QCM's question set as it exists
// now, not as it was when the student started. Publication and window checks
// are the caller's responsibility.
func (s *GradingService) Submit(studentID, qcmID uint, req SubmitRequest) (*AttemptResult, error) {
	if err := validateSubmitShape(req); err != nil {
		return nil, err
	}

	qcm, err := s.Qcms.FindByID(qcmID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Duplicate guard runs before everything else, including the attempt
	// limit, so the second half of an auto-submit race gets the cached Result
	// instead of an error.
	cutoff := s.now().Add(-SubmitDedupWindow)
	if prev, err := s.Results.LatestSince(studentID, qcmID, cutoff); err != nil {
		return nil, err
	} else if prev != nil {
		return attemptFromResult(prev), nil
	}

	locked := s.acquireSubmitLock(studentID, qcmID)
	if !locked {
		// Another submission for this pair is in flight. If its Result is
		// already visible, return it; otherwise fall through and grade. The
		// residual few-millisecond race can still yield two Results and is
		// accepted here rather than papered over.
		if prev, err := s.Results.LatestSince(studentID, qcmID, cutoff); err == nil && prev != nil {
			return attemptFromResult(prev), nil
		}
	}

	if qcm.MaxAttempts != nil && *qcm.MaxAttempts > 0 {
		count, err := s.Results.CountByStudentAndQcm(studentID, qcmID)
		if err != nil {
			return nil, err
		}
		if count >= int64(*qcm.MaxAttempts) {
			return nil, util.ErrAttemptLimit
		}
	}

	questions, err := s.Questions.ListByQcm(qcmID)
	if err != nil {
		return nil, err
	}

	chosenByQuestion := make(map[uint]*string, len(req.Answers))
	for _, a := range req.Answers {
		if _, seen := chosenByQuestion[a.QuestionID]; !seen {
			chosenByQuestion[a.QuestionID] = a.ChosenOption
		}
	}

	correct := 0
	feedback := make([]model.QuestionFeedback, 0, len(questions))
	answerLog := make([]model.Answer, 0, len(questions))

	for _, q := range questions {
		chosen := normalizeChosen(chosenByQuestion[q.ID])

		logged := ""
		if chosen != nil {
			logged = *chosen
		}
		answerLog = append(answerLog, model.Answer{
			StudentID:    studentID,
			QuestionID:   q.ID,
			ChosenOption: logged,
		})

		isCorrect := chosen != nil && *chosen == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		feedback = append(feedback, model.QuestionFeedback{
			QuestionID:    q.ID,
			Correct:       isCorrect,
			CorrectAnswer: q.CorrectAnswer,
			Chosen:        chosen,
			Explanation:   q.Explanation,
		})
	}

	score := 0
	if len(questions) > 0 {
		score = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	}
	passed := score >= qcm.EffectivePassingScore()

	if err := s.Answers.CreateBatch(answerLog); err != nil {
		return nil, err
	}

	result := &model.Result{
		StudentID: studentID,
		QcmID:     qcmID,
		Score:     score,
		Feedback:  feedback,
		Passed:    passed,
		Duration:  req.ElapsedSeconds,
	}
	if err := s.Results.Create(result); err != nil {
		return nil, err
	}

	return attemptFromResult(result), nil
}

// ListResultsForStudent returns a student's attempt history, newest first.
// Students can only read their own.
func (s *GradingService) ListResultsForStudent(requesterID, studentID uint) ([]model.Result, error) {
	if requesterID != studentID {
		return nil, util.ErrForbidden
	}
	return s.Results.ListByStudent(studentID)
}

// ListResultsForQcm lets the owning teacher review attempts against one QCM.
// This is a read-only cross-reference; teachers never write Results.
func (s *GradingService) ListResultsForQcm(requesterID, qcmID uint) ([]model.Result, error) {
	qcm, err := s.Qcms.FindByID(qcmID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if qcm.TeacherID != requesterID {
		return nil, util.ErrForbidden
	}
	return s.Results.ListByQcm(qcmID)
}

func validateSubmitShape(req SubmitRequest) error {
	for i, a := range req.Answers {
		if a.QuestionID == 0 {
			return util.Validationf("answers[%d]: question_id is required", i)
		}
	}
	if req.ElapsedSeconds != nil && *req.ElapsedSeconds < 0 {
		return util.Validationf("elapsed_seconds must not be negative")
	}
	return nil
}

// normalizeChosen trims the submitted value; missing entries and
// blank-after-trim values both count as unanswered.
func normalizeChosen(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// acquireSubmitLock takes a best-effort advisory lock scoped to the dedup
// window. Redis being down or unconfigured just means the plain
// read-then-write guard is all we have.
func (s *GradingService) acquireSubmitLock(studentID, qcmID uint) bool {
	if s.Redis == nil {
		return true
	}
	key := fmt.Sprintf("qcm:submit:%d:%d", studentID, qcmID)
	ok, err := s.Redis.SetNX(context.Background(), key, 1, SubmitDedupWindow).Result()
	if err != nil {
		return true
	}
	return ok
}

func attemptFromResult(r *model.Result) *AttemptResult {
	return &AttemptResult{
		ResultID: r.ID,
		Score:    r.Score,
		Passed:   r.Passed,
		Duration: r.Duration,
		Feedback: r.Feedback,
	}
}
