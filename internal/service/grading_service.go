package service

import (
	"context"
	"errors"
	"slices"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"
	"quiz_backend/pkg/monitoring"
	"quiz_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GradingService lets teachers regrade single answers of submitted attempts.
type GradingService struct {
	Attempts  AttemptStore
	Tests     TestStore
	Questions QuestionStore
}

func NewGradingService(attempts AttemptStore, tests TestStore, questions QuestionStore) *GradingService {
	return &GradingService{Attempts: attempts, Tests: tests, Questions: questions}
}

// OverrideAnswer sets the correctness and comment of one answer and recomputes
// the attempt score. Questions the student skipped get a new answer without a
// selected option. Open attempts are refused.
func (s *GradingService) OverrideAnswer(ctx context.Context, grader Actor, attemptID, questionID string, isCorrect bool, comment string) (attempt *model.Attempt, err error) {
	ctx, span := tracing.StartSpan(ctx, "grade.override",
		attribute.String("attempt.id", attemptID),
		attribute.String("question.id", questionID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	attempt, err = loadAttempt(ctx, s.Attempts, attemptID)
	if err != nil {
		return nil, err
	}
	test, err := loadTest(ctx, s.Tests, attempt.TestID)
	if err != nil {
		return nil, err
	}
	if !grader.CanManage(test) {
		return nil, rejected(util.ErrNotTestOwner)
	}
	if attempt.IsActive() {
		return nil, rejected(util.ErrAttemptInProgress)
	}

	questions, err := resolveQuestionSet(ctx, s.Questions, test)
	if err != nil {
		return nil, err
	}
	ids := questionIDs(questions)
	if !slices.Contains(ids, questionID) {
		return nil, util.ErrQuestionNotFound
	}

	marks := test.Marks()
	score := marks.For(isCorrect)
	answers := make([]model.SubmittedAnswer, len(attempt.Answers))
	copy(answers, attempt.Answers)

	found := false
	for i := range answers {
		if answers[i].QuestionID.Matches(questionID) {
			answers[i].IsCorrect = &isCorrect
			answers[i].Score = &score
			answers[i].TeacherComment = comment
			found = true
			break
		}
	}
	if !found {
		answers = append(answers, model.SubmittedAnswer{
			QuestionID:     model.NewQuestionRef(questionID),
			IsCorrect:      &isCorrect,
			Score:          &score,
			TeacherComment: comment,
		})
	}

	agg := AggregateAnswers(answers, ids, marks)
	if err := s.Attempts.ApplyOverride(ctx, attempt.ID, answers, agg.Percentage); err != nil {
		if errors.Is(err, repository.ErrAttemptClosed) {
			return nil, rejected(util.ErrAttemptInProgress)
		}
		return nil, util.NewPersistenceError(err)
	}

	attempt.Answers = answers
	attempt.Score = &agg.Percentage
	attempt.Progress = nil

	monitoring.GradeOverrides.Inc()
	logger.Log.Info("Answer regraded",
		zap.String("attemptId", attempt.ID),
		zap.String("questionId", questionID),
		zap.Uint("graderId", grader.UserID),
		zap.Bool("isCorrect", isCorrect),
		zap.Float64("score", agg.Percentage),
	)
	return attempt, nil
}
