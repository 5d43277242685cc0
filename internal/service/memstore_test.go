package service

import (
	"sort"
	"sync"
	"time"

	"qcm_backend/internal/model"

	"gorm.io/gorm"
)

// memStore backs the service tests with an in-memory implementation of every
// store interface, keyed the same way the SQL schema is.
type memStore struct {
	mu        sync.Mutex
	nextID    uint
	questions map[uint]model.Question
	qcms      map[uint]model.Qcm
	subjects  map[uint]model.Subject
	answers   []model.Answer
	results   map[uint]model.Result
}

func newMemStore() *memStore {
	return &memStore{
		questions: map[uint]model.Question{},
		qcms:      map[uint]model.Qcm{},
		subjects:  map[uint]model.Subject{},
		results:   map[uint]model.Result{},
	}
}

func (m *memStore) nextKey() uint {
	m.nextID++
	return m.nextID
}

// QuestionStore

func (m *memStore) Create(q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = m.nextKey()
	q.CreatedAt = time.Now()
	m.questions[q.ID] = *q
	return nil
}

func (m *memStore) FindByID(id uint) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (m *memStore) ListBank(teacherID uint) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var qs []model.Question
	for _, q := range m.questions {
		if q.TeacherID == teacherID && q.QcmID == nil {
			qs = append(qs, q)
		}
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	return qs, nil
}

func (m *memStore) ListByQcm(qcmID uint) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var qs []model.Question
	for _, q := range m.questions {
		if q.QcmID != nil && *q.QcmID == qcmID {
			qs = append(qs, q)
		}
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	return qs, nil
}

func (m *memStore) Save(q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[q.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.questions[q.ID] = *q
	return nil
}

func (m *memStore) SetQcm(questionID uint, qcmID *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[questionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	q.QcmID = qcmID
	m.questions[questionID] = q
	return nil
}

func (m *memStore) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.questions, id)
	return nil
}

// The remaining interfaces are implemented on small wrapper types because
// their method names collide with QuestionStore's.

type qcmPart struct{ m *memStore }

func (p qcmPart) Create(q *model.Qcm) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	q.ID = p.m.nextKey()
	q.CreatedAt = time.Now()
	p.m.qcms[q.ID] = *q
	return nil
}

func (p qcmPart) FindByID(id uint) (*model.Qcm, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	q, ok := p.m.qcms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (p qcmPart) ListByTeacher(teacherID uint) ([]model.Qcm, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var qs []model.Qcm
	for _, q := range p.m.qcms {
		if q.TeacherID == teacherID {
			qs = append(qs, q)
		}
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	return qs, nil
}

func (p qcmPart) ListPublished() ([]model.Qcm, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var qs []model.Qcm
	for _, q := range p.m.qcms {
		if q.Published {
			qs = append(qs, q)
		}
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	return qs, nil
}

func (p qcmPart) Save(q *model.Qcm) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if _, ok := p.m.qcms[q.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.m.qcms[q.ID] = *q
	return nil
}

func (p qcmPart) DeleteWithQuestions(id uint) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for qid, q := range p.m.questions {
		if q.QcmID != nil && *q.QcmID == id {
			delete(p.m.questions, qid)
		}
	}
	delete(p.m.qcms, id)
	return nil
}

// AnswerStore

type answerPart struct{ m *memStore }

func (p answerPart) CreateBatch(answers []model.Answer) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for i := range answers {
		answers[i].ID = p.m.nextKey()
	}
	p.m.answers = append(p.m.answers, answers...)
	return nil
}

// ResultStore

type resultPart struct{ m *memStore }

func (p resultPart) Create(res *model.Result) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	res.ID = p.m.nextKey()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	p.m.results[res.ID] = *res
	return nil
}

func (p resultPart) LatestSince(studentID, qcmID uint, cutoff time.Time) (*model.Result, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var latest *model.Result
	for id := range p.m.results {
		r := p.m.results[id]
		if r.StudentID != studentID || r.QcmID != qcmID || r.CreatedAt.Before(cutoff) {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			tmp := r
			latest = &tmp
		}
	}
	return latest, nil
}

func (p resultPart) CountByStudentAndQcm(studentID, qcmID uint) (int64, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var count int64
	for _, r := range p.m.results {
		if r.StudentID == studentID && r.QcmID == qcmID {
			count++
		}
	}
	return count, nil
}

func (p resultPart) ListByStudent(studentID uint) ([]model.Result, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var rs []model.Result
	for _, r := range p.m.results {
		if r.StudentID == studentID {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].CreatedAt.After(rs[j].CreatedAt) })
	return rs, nil
}

func (p resultPart) ListByQcm(qcmID uint) ([]model.Result, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var rs []model.Result
	for _, r := range p.m.results {
		if r.QcmID == qcmID {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].CreatedAt.After(rs[j].CreatedAt) })
	return rs, nil
}

// SubjectStore

type subjectPart struct{ m *memStore }

func (p subjectPart) List() ([]model.Subject, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var ss []model.Subject
	for _, s := range p.m.subjects {
		ss = append(ss, s)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
	return ss, nil
}

func (p subjectPart) FindByID(id uint) (*model.Subject, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	s, ok := p.m.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

// backdateResult shifts a stored result into the past so tests can step
// outside the dedup window without sleeping.
func (m *memStore) backdateResult(id uint, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.results[id]
	r.CreatedAt = r.CreatedAt.Add(-d)
	m.results[id] = r
}

func (m *memStore) addSubject(name string) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextKey()
	m.subjects[id] = model.Subject{ID: id, Name: name}
	return id
}

func (m *memStore) answerRows() []model.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Answer(nil), m.answers...)
}

func (m *memStore) resultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func newTestServices() (*memStore, *CompositionService, *GradingService) {
	m := newMemStore()
	comp := NewCompositionService(m, qcmPart{m}, subjectPart{m})
	grading := NewGradingService(qcmPart{m}, m, answerPart{m}, resultPart{m}, nil)
	return m, comp, grading
}
