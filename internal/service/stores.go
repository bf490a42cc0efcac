package service

import (
	"context"
	"time"

	"quiz_backend/internal/model"
)

// QuestionStore is the read side of the question bank.
type QuestionStore interface {
	FindQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error)
}

// TestStore is the read side of test definitions.
type TestStore interface {
	GetTestByID(ctx context.Context, id string) (*model.Test, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Test, error)
}

// AttemptStore persists attempt records. Complete and ApplyOverride are
// conditional on end_time and return repository.ErrAttemptClosed when the
// attempt is not in the required state.
type AttemptStore interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	FindByID(ctx context.Context, id string) (*model.Attempt, error)
	FindActive(ctx context.Context, studentID uint, testID string) (*model.Attempt, error)
	HasCompleted(ctx context.Context, studentID uint, testID string) (bool, error)
	Complete(ctx context.Context, id string, answers []model.SubmittedAnswer, score float64, endTime time.Time) error
	ApplyOverride(ctx context.Context, id string, answers []model.SubmittedAnswer, score float64) error
	ListByStudent(ctx context.Context, studentID uint) ([]model.Attempt, error)
	ListByTest(ctx context.Context, testID string) ([]model.Attempt, error)
}

// ProgressStore holds autosave snapshots. LoadProgress returns nil, nil when
// nothing was saved; SaveProgress returns false when the attempt is closed.
type ProgressStore interface {
	SaveProgress(ctx context.Context, attemptID string, progress model.AttemptProgress) (bool, error)
	LoadProgress(ctx context.Context, attemptID string) (*model.AttemptProgress, error)
	ClearProgress(ctx context.Context, attemptID string) error
}

// Actor is the authenticated caller as read from the bearer token.
type Actor struct {
	UserID uint
	Role   model.UserRole
}

// CanManage reports whether the actor owns the test or is an admin.
func (a Actor) CanManage(test *model.Test) bool {
	return a.Role == model.Admin || (a.Role == model.Teacher && test.TeacherID == a.UserID)
}
