package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"

	"gorm.io/gorm"
)

type fakeQuestionStore struct {
	questions map[string]model.Question
	err       error
}

func newFakeQuestionStore(questions ...model.Question) *fakeQuestionStore {
	s := &fakeQuestionStore{questions: map[string]model.Question{}}
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	return s
}

func (s *fakeQuestionStore) FindQuestionsByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Question
	for _, id := range ids {
		if q, ok := s.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeTestStore struct {
	tests map[string]*model.Test
}

func newFakeTestStore(tests ...*model.Test) *fakeTestStore {
	s := &fakeTestStore{tests: map[string]*model.Test{}}
	for _, t := range tests {
		s.tests[t.ID] = t
	}
	return s
}

func (s *fakeTestStore) GetTestByID(_ context.Context, id string) (*model.Test, error) {
	t, ok := s.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTestStore) ListActive(_ context.Context, now time.Time) ([]model.Test, error) {
	var out []model.Test
	for _, t := range s.tests {
		if t.WindowOpen(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fakeAttemptStore mimics the conditional updates of the gorm repository and
// doubles as the row-backed progress store.
type fakeAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*model.Attempt
	seq      int
	writeErr error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[string]*model.Attempt{}}
}

func cloneAttempt(a *model.Attempt) *model.Attempt {
	cp := *a
	cp.Answers = append([]model.SubmittedAnswer(nil), a.Answers...)
	if a.Progress != nil {
		p := *a.Progress
		cp.Progress = &p
	}
	return &cp
}

func (s *fakeAttemptStore) Create(_ context.Context, attempt *model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	key := model.ActiveKeyFor(attempt.StudentID, attempt.TestID)
	for _, a := range s.attempts {
		if a.ActiveKey != nil && *a.ActiveKey == key {
			return gorm.ErrDuplicatedKey
		}
	}
	s.seq++
	attempt.ID = fmt.Sprintf("attempt-%d", s.seq)
	attempt.ActiveKey = &key
	s.attempts[attempt.ID] = cloneAttempt(attempt)
	return nil
}

func (s *fakeAttemptStore) FindByID(_ context.Context, id string) (*model.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneAttempt(a), nil
}

func (s *fakeAttemptStore) FindActive(_ context.Context, studentID uint, testID string) (*model.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.TestID == testID && a.EndTime == nil {
			return cloneAttempt(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeAttemptStore) HasCompleted(_ context.Context, studentID uint, testID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.TestID == testID && a.EndTime != nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAttemptStore) Complete(_ context.Context, id string, answers []model.SubmittedAnswer, score float64, endTime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	a, ok := s.attempts[id]
	if !ok || a.EndTime != nil {
		return repository.ErrAttemptClosed
	}
	a.Answers = append([]model.SubmittedAnswer(nil), answers...)
	a.Score = &score
	a.EndTime = &endTime
	a.Progress = nil
	a.ActiveKey = nil
	return nil
}

func (s *fakeAttemptStore) ApplyOverride(_ context.Context, id string, answers []model.SubmittedAnswer, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	a, ok := s.attempts[id]
	if !ok || a.EndTime == nil {
		return repository.ErrAttemptClosed
	}
	a.Answers = append([]model.SubmittedAnswer(nil), answers...)
	a.Score = &score
	return nil
}

func (s *fakeAttemptStore) ListByStudent(_ context.Context, studentID uint) ([]model.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Attempt
	for _, a := range s.attempts {
		if a.StudentID == studentID {
			out = append(out, *cloneAttempt(a))
		}
	}
	return out, nil
}

func (s *fakeAttemptStore) ListByTest(_ context.Context, testID string) ([]model.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Attempt
	for _, a := range s.attempts {
		if a.TestID == testID {
			out = append(out, *cloneAttempt(a))
		}
	}
	return out, nil
}

func (s *fakeAttemptStore) SaveProgress(_ context.Context, id string, progress model.AttemptProgress) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok || a.EndTime != nil {
		return false, nil
	}
	a.Progress = &progress
	return true, nil
}

func (s *fakeAttemptStore) LoadProgress(_ context.Context, id string) (*model.AttemptProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok || a.Progress == nil {
		return nil, nil
	}
	p := *a.Progress
	return &p, nil
}

func (s *fakeAttemptStore) ClearProgress(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attempts[id]; ok {
		a.Progress = nil
	}
	return nil
}

func (s *fakeAttemptStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}
