package service

import (
	"context"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"
)

// TestService serves test definitions to students.
type TestService struct {
	Tests     TestStore
	Questions QuestionStore

	now func() time.Time
}

func NewTestService(tests TestStore, questions QuestionStore) *TestService {
	return &TestService{Tests: tests, Questions: questions, now: time.Now}
}

// ListAvailable returns the tests open right now that the student may see.
func (s *TestService) ListAvailable(ctx context.Context, studentID uint) ([]model.Test, error) {
	tests, err := s.Tests.ListActive(ctx, s.now())
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	available := make([]model.Test, 0, len(tests))
	for _, t := range tests {
		if t.ListableTo(studentID) {
			available = append(available, t)
		}
	}
	return available, nil
}

// GetForStudent returns an open test with its questions. Callers must strip
// correct answers before sending the questions out.
func (s *TestService) GetForStudent(ctx context.Context, studentID uint, testID, joinCode string) (*model.Test, []model.Question, error) {
	test, err := loadTest(ctx, s.Tests, testID)
	if err != nil {
		return nil, nil, err
	}
	if !test.VisibleTo(studentID, joinCode) {
		return nil, nil, util.ErrTestNotVisible
	}
	if !test.WindowOpen(s.now()) {
		return nil, nil, util.ErrWindowClosed
	}
	questions, err := resolveQuestionSet(ctx, s.Questions, test)
	if err != nil {
		return nil, nil, err
	}
	return test, questions, nil
}
