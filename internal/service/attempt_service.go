package service

import (
	"context"
	"errors"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"
	"quiz_backend/pkg/monitoring"
	"quiz_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService drives an attempt through start, autosave and submit.
type AttemptService struct {
	Attempts  AttemptStore
	Tests     TestStore
	Questions QuestionStore
	Progress  ProgressStore

	now func() time.Time
}

func NewAttemptService(attempts AttemptStore, tests TestStore, questions QuestionStore, progress ProgressStore) *AttemptService {
	return &AttemptService{
		Attempts:  attempts,
		Tests:     tests,
		Questions: questions,
		Progress:  progress,
		now:       time.Now,
	}
}

type SubmitResult struct {
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectCount   int     `json:"correctAnswers"`
}

// AnswerDetail is a stored answer next to the question it answers.
type AnswerDetail struct {
	model.SubmittedAnswer
	Question *model.Question `json:"question,omitempty"`
}

type AttemptDetail struct {
	Attempt *model.Attempt `json:"attempt"`
	Test    *model.Test    `json:"test"`
	Answers []AnswerDetail `json:"answers"`
}

// Start opens a new attempt. Checks run in order: test exists, test visible to
// the student, window open, no other open attempt.
func (s *AttemptService) Start(ctx context.Context, studentID uint, testID, joinCode string) (attempt *model.Attempt, err error) {
	ctx, span := tracing.StartSpan(ctx, "attempt.start",
		attribute.String("test.id", testID),
		attribute.Int64("student.id", int64(studentID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	test, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, rejected(err)
	}
	if !test.VisibleTo(studentID, joinCode) {
		return nil, rejected(util.ErrTestNotVisible)
	}
	now := s.now()
	if !test.WindowOpen(now) {
		return nil, rejected(util.ErrWindowClosed)
	}

	if _, err := s.Attempts.FindActive(ctx, studentID, testID); err == nil {
		return nil, rejected(util.ErrAlreadyActive)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewPersistenceError(err)
	}

	attempt = &model.Attempt{
		StudentID: studentID,
		TestID:    testID,
		StartTime: now,
		Answers:   []model.SubmittedAnswer{},
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, rejected(util.ErrAlreadyActive)
		}
		return nil, util.NewPersistenceError(err)
	}

	monitoring.AttemptsStarted.Inc()
	logger.Log.Info("Attempt started",
		zap.String("attemptId", attempt.ID),
		zap.String("testId", testID),
		zap.Uint("studentId", studentID),
	)
	return attempt, nil
}

// SaveProgress replaces the autosave snapshot of an open attempt.
func (s *AttemptService) SaveProgress(ctx context.Context, attemptID string, requesterID uint, answers map[string]string, timeLeft, current int) error {
	attempt, err := s.loadOwnedAttempt(ctx, attemptID, requesterID)
	if err != nil {
		return rejected(err)
	}
	if !attempt.IsActive() {
		return rejected(util.ErrAlreadyCompleted)
	}
	if answers == nil {
		answers = map[string]string{}
	}

	saved, err := s.Progress.SaveProgress(ctx, attemptID, model.AttemptProgress{
		Answers:    answers,
		TimeLeft:   timeLeft,
		Current:    current,
		LastUpdate: s.now(),
	})
	if err != nil {
		return util.NewPersistenceError(err)
	}
	if !saved {
		return rejected(util.ErrAlreadyCompleted)
	}
	return nil
}

// GetProgress returns the last snapshot, or an empty one if nothing was saved.
func (s *AttemptService) GetProgress(ctx context.Context, attemptID string, requesterID uint) (model.AttemptProgress, error) {
	attempt, err := s.loadOwnedAttempt(ctx, attemptID, requesterID)
	if err != nil {
		return model.AttemptProgress{}, rejected(err)
	}
	if !attempt.IsActive() {
		return model.AttemptProgress{}, rejected(util.ErrAlreadyCompleted)
	}

	progress, err := s.Progress.LoadProgress(ctx, attemptID)
	if err != nil {
		return model.AttemptProgress{}, util.NewPersistenceError(err)
	}
	if progress == nil {
		return model.EmptyProgress(), nil
	}
	if progress.Answers == nil {
		progress.Answers = map[string]string{}
	}
	return *progress, nil
}

// Submit scores the answers and freezes the attempt. Only the first submit of
// an attempt is recorded; later calls fail with AlreadyCompleted.
func (s *AttemptService) Submit(ctx context.Context, attemptID string, studentID uint, answers []model.SubmittedAnswer) (*SubmitResult, error) {
	attempt, err := s.loadOwnedAttempt(ctx, attemptID, studentID)
	if err != nil {
		return nil, rejected(err)
	}
	return s.complete(ctx, attempt, answers)
}

// SubmitForTest submits the student's open attempt on the given test.
func (s *AttemptService) SubmitForTest(ctx context.Context, testID string, studentID uint, answers []model.SubmittedAnswer) (*SubmitResult, error) {
	attempt, err := s.Attempts.FindActive(ctx, studentID, testID)
	if err == nil {
		return s.complete(ctx, attempt, answers)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewPersistenceError(err)
	}

	done, err := s.Attempts.HasCompleted(ctx, studentID, testID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if done {
		return nil, rejected(util.ErrAlreadyCompleted)
	}
	if _, err := s.loadTest(ctx, testID); err != nil {
		return nil, rejected(err)
	}
	return nil, rejected(util.ErrAttemptNotFound)
}

func (s *AttemptService) complete(ctx context.Context, attempt *model.Attempt, answers []model.SubmittedAnswer) (result *SubmitResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "attempt.submit",
		attribute.String("attempt.id", attempt.ID),
		attribute.String("test.id", attempt.TestID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if !attempt.IsActive() {
		return nil, rejected(util.ErrAlreadyCompleted)
	}
	test, err := s.loadTest(ctx, attempt.TestID)
	if err != nil {
		return nil, rejected(err)
	}
	questions, err := resolveQuestionSet(ctx, s.Questions, test)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, rejected(util.ErrNoQuestions)
	}

	scored := ScoreAnswers(answers, questions, test.Marks())
	if err := s.Attempts.Complete(ctx, attempt.ID, scored.Answers, scored.Percentage, s.now()); err != nil {
		if errors.Is(err, repository.ErrAttemptClosed) {
			return nil, rejected(util.ErrAlreadyCompleted)
		}
		return nil, util.NewPersistenceError(err)
	}

	if err := s.Progress.ClearProgress(ctx, attempt.ID); err != nil {
		logger.Log.Warn("Failed to clear attempt progress",
			zap.String("attemptId", attempt.ID),
			zap.Error(err),
		)
	}

	monitoring.AttemptsSubmitted.Inc()
	monitoring.AttemptScore.Observe(scored.Percentage)
	logger.Log.Info("Attempt submitted",
		zap.String("attemptId", attempt.ID),
		zap.Uint("studentId", attempt.StudentID),
		zap.Float64("score", scored.Percentage),
		zap.Int("correct", scored.CorrectCount),
		zap.Int("total", scored.TotalQuestions),
	)

	return &SubmitResult{
		Score:          scored.Percentage,
		TotalQuestions: scored.TotalQuestions,
		CorrectCount:   scored.CorrectCount,
	}, nil
}

// ListForStudent returns the student's attempts, newest first.
func (s *AttemptService) ListForStudent(ctx context.Context, studentID uint) ([]model.Attempt, error) {
	attempts, err := s.Attempts.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	for i := range attempts {
		hideClosedProgress(&attempts[i])
	}
	return attempts, nil
}

// GetForStudent returns one of the student's own attempts. Attempts of other
// students are reported as missing.
func (s *AttemptService) GetForStudent(ctx context.Context, attemptID string, studentID uint) (*model.Attempt, error) {
	attempt, err := s.loadAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrAttemptNotFound
	}
	hideClosedProgress(attempt)
	return attempt, nil
}

// ListForTest returns every attempt on a test the actor manages.
func (s *AttemptService) ListForTest(ctx context.Context, actor Actor, testID string) ([]model.Attempt, error) {
	test, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(test) {
		return nil, util.ErrNotTestOwner
	}
	attempts, err := s.Attempts.ListByTest(ctx, testID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	for i := range attempts {
		hideClosedProgress(&attempts[i])
	}
	return attempts, nil
}

// GetForTeacher returns an attempt with each answer joined to its question.
func (s *AttemptService) GetForTeacher(ctx context.Context, actor Actor, attemptID string) (*AttemptDetail, error) {
	attempt, err := s.loadAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	test, err := s.loadTest(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(test) {
		return nil, util.ErrNotTestOwner
	}

	questions, err := resolveQuestionSet(ctx, s.Questions, test)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	hideClosedProgress(attempt)
	details := make([]AnswerDetail, 0, len(attempt.Answers))
	for _, a := range attempt.Answers {
		details = append(details, AnswerDetail{SubmittedAnswer: a, Question: byID[a.QuestionID.ID()]})
	}
	return &AttemptDetail{Attempt: attempt, Test: test, Answers: details}, nil
}

func (s *AttemptService) loadTest(ctx context.Context, testID string) (*model.Test, error) {
	return loadTest(ctx, s.Tests, testID)
}

func (s *AttemptService) loadAttempt(ctx context.Context, attemptID string) (*model.Attempt, error) {
	return loadAttempt(ctx, s.Attempts, attemptID)
}

func (s *AttemptService) loadOwnedAttempt(ctx context.Context, attemptID string, studentID uint) (*model.Attempt, error) {
	attempt, err := s.loadAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrNotAttemptOwner
	}
	return attempt, nil
}

func loadTest(ctx context.Context, store TestStore, testID string) (*model.Test, error) {
	test, err := store.GetTestByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, util.NewPersistenceError(err)
	}
	return test, nil
}

func loadAttempt(ctx context.Context, store AttemptStore, attemptID string) (*model.Attempt, error) {
	attempt, err := store.FindByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, util.NewPersistenceError(err)
	}
	return attempt, nil
}

func hideClosedProgress(a *model.Attempt) {
	if !a.IsActive() {
		a.Progress = nil
	}
}

// rejected counts a refused lifecycle operation by its reason code.
func rejected(err error) error {
	if re := util.ReasonOf(err); re != nil && re.Reason != util.ReasonPersistenceError {
		monitoring.LifecycleRejections.WithLabelValues(re.Reason).Inc()
	}
	return err
}
