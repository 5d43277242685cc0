package service

import (
	"errors"
	"testing"
	"time"

	"qcm_backend/internal/model"
	"qcm_backend/internal/util"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// seedQcm creates a QCM for teacher 1 with one attached question per
// (text, correctAnswer) pair, options being the correct answer plus "wrong".
func seedQcm(m *memStore, correctAnswers []string, mutate func(*model.Qcm)) (uint, []uint) {
	qcm := &model.Qcm{TeacherID: 1, Title: "Quiz", Published: true}
	if mutate != nil {
		mutate(qcm)
	}
	_ = qcmPart{m}.Create(qcm)

	ids := make([]uint, 0, len(correctAnswers))
	for _, ans := range correctAnswers {
		q := &model.Question{
			TeacherID:     1,
			QcmID:         &qcm.ID,
			Text:          "Q: " + ans,
			Options:       []string{ans, "wrong"},
			CorrectAnswer: ans,
			Explanation:   "because",
		}
		_ = m.Create(q)
		ids = append(ids, q.ID)
	}
	return qcm.ID, ids
}

func answersFor(ids []uint, values []string) []SubmittedAnswer {
	out := make([]SubmittedAnswer, len(ids))
	for i, id := range ids {
		v := values[i]
		out[i] = SubmittedAnswer{QuestionID: id, ChosenOption: &v}
	}
	return out
}

func TestSubmitScoring(t *testing.T) {
	t.Run("AllCorrect", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"2", "Paris"}, nil)

		res, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"2", "Paris"})})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 100 || !res.Passed {
			t.Errorf("expected 100/passed, got %d/%v", res.Score, res.Passed)
		}
		if len(res.Feedback) != 2 {
			t.Fatalf("expected 2 feedback entries, got %d", len(res.Feedback))
		}
	})

	t.Run("CaseSensitiveMatch", func(t *testing.T) {
		// passingScore=50, answers ["2","Paris"], submission ["2","paris"]:
		// only the first counts, score 50, still passed.
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"2", "Paris"}, func(q *model.Qcm) {
			q.PassingScore = intPtr(50)
		})

		res, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"2", "paris"})})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 50 {
			t.Errorf("expected score 50, got %d", res.Score)
		}
		if !res.Passed {
			t.Error("expected passed at exactly the threshold")
		}
		if res.Feedback[0].Correct != true || res.Feedback[1].Correct != false {
			t.Errorf("unexpected feedback correctness: %+v", res.Feedback)
		}
	})

	t.Run("HalfUpRounding", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"a", "b", "c"}, nil)

		res, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"a", "b", "nope"})})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 67 { // round(200/3)
			t.Errorf("expected 67, got %d", res.Score)
		}

		m.backdateResult(res.ResultID, SubmitDedupWindow+time.Second)
		res2, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"a", "nope", "nope"})})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res2.Score != 33 { // round(100/3)
			t.Errorf("expected 33, got %d", res2.Score)
		}
	})

	t.Run("EmptyQcm", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, _ := seedQcm(m, nil, nil)

		res, err := grading.Submit(10, qcmID, SubmitRequest{})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 0 {
			t.Errorf("expected score 0 for empty QCM, got %d", res.Score)
		}
		if res.Passed {
			t.Error("0 must not pass the default threshold of 50")
		}
	})

	t.Run("EmptyQcmZeroThreshold", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, _ := seedQcm(m, nil, func(q *model.Qcm) { q.PassingScore = intPtr(0) })

		res, err := grading.Submit(10, qcmID, SubmitRequest{})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if !res.Passed {
			t.Error("score 0 passes when passing_score is 0")
		}
	})

	t.Run("OmittedAnswer", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"2", "Paris"}, nil)

		// Only the first question is answered.
		res, err := grading.Submit(10, qcmID, SubmitRequest{
			Answers: []SubmittedAnswer{{QuestionID: ids[0], ChosenOption: strPtr("2")}},
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 50 {
			t.Errorf("expected 50, got %d", res.Score)
		}
		if len(res.Feedback) != 2 {
			t.Fatalf("feedback must cover every live question, got %d entries", len(res.Feedback))
		}
		if res.Feedback[1].Chosen != nil {
			t.Errorf("omitted answer must have chosen=nil, got %q", *res.Feedback[1].Chosen)
		}
		if res.Feedback[1].Correct {
			t.Error("omitted answer must grade as incorrect")
		}

		// The answer log still has a row per question, empty string not NULL.
		rows := m.answerRows()
		if len(rows) != 2 {
			t.Fatalf("expected 2 answer rows, got %d", len(rows))
		}
		if rows[1].ChosenOption != "" {
			t.Errorf("unanswered log row must store empty string, got %q", rows[1].ChosenOption)
		}
	})

	t.Run("BlankAndWhitespaceAnswers", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"Paris"}, nil)

		res, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"   "})})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 0 {
			t.Errorf("blank answer must not match, got score %d", res.Score)
		}
		if res.Feedback[0].Chosen != nil {
			t.Error("blank-after-trim must normalize to unanswered")
		}

		m.backdateResult(res.ResultID, SubmitDedupWindow+time.Second)
		res2, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"  Paris  "})})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res2.Score != 100 {
			t.Errorf("surrounding whitespace must be trimmed before comparing, got %d", res2.Score)
		}
	})

	t.Run("EmptyCorrectAnswerNeverMatched", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, _ := seedQcm(m, nil, nil)
		// Bypass validation on purpose: a stored question with an
		// empty-string correct answer must still be unmatchable by an empty
		// submission.
		q := &model.Question{TeacherID: 1, QcmID: &qcmID, Text: "broken", Options: []string{"", "x"}, CorrectAnswer: ""}
		_ = m.Create(q)

		res, err := grading.Submit(10, qcmID, SubmitRequest{
			Answers: []SubmittedAnswer{{QuestionID: q.ID, ChosenOption: strPtr("")}},
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.Score != 0 {
			t.Errorf("empty submission must never match, got %d", res.Score)
		}
	})
}

func TestSubmitDuplicateGuard(t *testing.T) {
	t.Run("WithinWindowReturnsCached", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"2", "Paris"}, nil)
		req := SubmitRequest{Answers: answersFor(ids, []string{"2", "Paris"})}

		first, err := grading.Submit(10, qcmID, req)
		if err != nil {
			t.Fatalf("first Submit: %v", err)
		}
		second, err := grading.Submit(10, qcmID, req)
		if err != nil {
			t.Fatalf("second Submit: %v", err)
		}
		if first.ResultID != second.ResultID {
			t.Errorf("duplicate within window must return the same result id: %d vs %d", first.ResultID, second.ResultID)
		}
		if first.Score != second.Score {
			t.Errorf("scores differ: %d vs %d", first.Score, second.Score)
		}
		if m.resultCount() != 1 {
			t.Errorf("expected exactly one persisted result, got %d", m.resultCount())
		}
	})

	t.Run("AfterWindowGradesNewAttempt", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"2"}, nil)
		req := SubmitRequest{Answers: answersFor(ids, []string{"2"})}

		first, err := grading.Submit(10, qcmID, req)
		if err != nil {
			t.Fatalf("first Submit: %v", err)
		}
		m.backdateResult(first.ResultID, SubmitDedupWindow+time.Second)

		second, err := grading.Submit(10, qcmID, req)
		if err != nil {
			t.Fatalf("second Submit: %v", err)
		}
		if first.ResultID == second.ResultID {
			t.Error("a resubmission outside the window must create a new result")
		}
		if m.resultCount() != 2 {
			t.Errorf("expected two persisted results, got %d", m.resultCount())
		}
	})

	t.Run("GuardIsPerStudent", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, ids := seedQcm(m, []string{"2"}, nil)
		req := SubmitRequest{Answers: answersFor(ids, []string{"2"})}

		a, err := grading.Submit(10, qcmID, req)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		b, err := grading.Submit(11, qcmID, req)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if a.ResultID == b.ResultID {
			t.Error("different students must never share a result")
		}
	})
}

func TestSubmitAttemptLimit(t *testing.T) {
	m, _, grading := newTestServices()
	qcmID, ids := seedQcm(m, []string{"2"}, func(q *model.Qcm) { q.MaxAttempts = intPtr(1) })
	req := SubmitRequest{Answers: answersFor(ids, []string{"2"})}

	first, err := grading.Submit(10, qcmID, req)
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Still inside the dedup window: the duplicate guard wins over the limit.
	dup, err := grading.Submit(10, qcmID, req)
	if err != nil {
		t.Fatalf("duplicate Submit: %v", err)
	}
	if dup.ResultID != first.ResultID {
		t.Error("duplicate within window must return the cached result, not an attempt-limit error")
	}

	m.backdateResult(first.ResultID, SubmitDedupWindow+time.Second)
	if _, err := grading.Submit(10, qcmID, req); !errors.Is(err, util.ErrAttemptLimit) {
		t.Errorf("expected ErrAttemptLimit, got %v", err)
	}
}

func TestSubmitFailures(t *testing.T) {
	t.Run("UnknownQcm", func(t *testing.T) {
		_, _, grading := newTestServices()
		if _, err := grading.Submit(10, 999, SubmitRequest{}); !errors.Is(err, util.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("MalformedAnswersRejectedAtomically", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, _ := seedQcm(m, []string{"2"}, nil)

		_, err := grading.Submit(10, qcmID, SubmitRequest{
			Answers: []SubmittedAnswer{{QuestionID: 0, ChosenOption: strPtr("2")}},
		})
		if !util.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(m.answerRows()) != 0 || m.resultCount() != 0 {
			t.Error("a rejected submission must not persist any rows")
		}
	})

	t.Run("NegativeElapsedSeconds", func(t *testing.T) {
		m, _, grading := newTestServices()
		qcmID, _ := seedQcm(m, []string{"2"}, nil)
		neg := -5
		if _, err := grading.Submit(10, qcmID, SubmitRequest{ElapsedSeconds: &neg}); !util.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestSubmitUsesLiveQuestionSet(t *testing.T) {
	m, comp, grading := newTestServices()
	qcmID, ids := seedQcm(m, []string{"2", "Paris"}, nil)

	first, err := grading.Submit(10, qcmID, SubmitRequest{
		Answers: []SubmittedAnswer{{QuestionID: ids[0], ChosenOption: strPtr("2")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if first.Score != 50 {
		t.Fatalf("expected 50 over 2 questions, got %d", first.Score)
	}

	// Teacher deletes the second question; the denominator shrinks.
	if err := comp.DeleteQuestion(1, ids[1]); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	m.backdateResult(first.ResultID, SubmitDedupWindow+time.Second)

	second, err := grading.Submit(10, qcmID, SubmitRequest{
		Answers: []SubmittedAnswer{{QuestionID: ids[0], ChosenOption: strPtr("2")}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if second.Score != 100 {
		t.Errorf("expected 100 over the shrunken set, got %d", second.Score)
	}
	if len(second.Feedback) != 1 {
		t.Errorf("feedback must only cover live questions, got %d entries", len(second.Feedback))
	}
}

func TestSubmitDurationIsClientSupplied(t *testing.T) {
	m, _, grading := newTestServices()
	qcmID, ids := seedQcm(m, []string{"2"}, nil)

	elapsed := 73
	res, err := grading.Submit(10, qcmID, SubmitRequest{
		Answers:        answersFor(ids, []string{"2"}),
		ElapsedSeconds: &elapsed,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Duration == nil || *res.Duration != 73 {
		t.Errorf("duration must be stored as submitted, got %v", res.Duration)
	}
}

func TestListResults(t *testing.T) {
	m, _, grading := newTestServices()
	qcmID, ids := seedQcm(m, []string{"2"}, nil)
	if _, err := grading.Submit(10, qcmID, SubmitRequest{Answers: answersFor(ids, []string{"2"})}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	t.Run("StudentOwnHistory", func(t *testing.T) {
		rs, err := grading.ListResultsForStudent(10, 10)
		if err != nil {
			t.Fatalf("ListResultsForStudent: %v", err)
		}
		if len(rs) != 1 {
			t.Errorf("expected 1 result, got %d", len(rs))
		}
	})

	t.Run("StudentForeignHistoryForbidden", func(t *testing.T) {
		if _, err := grading.ListResultsForStudent(11, 10); !errors.Is(err, util.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("OwningTeacherReadsQcmResults", func(t *testing.T) {
		rs, err := grading.ListResultsForQcm(1, qcmID)
		if err != nil {
			t.Fatalf("ListResultsForQcm: %v", err)
		}
		if len(rs) != 1 {
			t.Errorf("expected 1 result, got %d", len(rs))
		}
	})

	t.Run("ForeignTeacherForbidden", func(t *testing.T) {
		if _, err := grading.ListResultsForQcm(2, qcmID); !errors.Is(err, util.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("UnknownQcm", func(t *testing.T) {
		if _, err := grading.ListResultsForQcm(1, 999); !errors.Is(err, util.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
