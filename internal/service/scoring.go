package service

import (
	"context"
	"math"
	"strings"

	"quiz_backend/internal/model"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	Answers        []model.SubmittedAnswer
	RawScore       float64
	Percentage     float64
	TotalQuestions int
	CorrectCount   int
}

// Aggregate is the score summary over a full answer list.
type Aggregate struct {
	RawScore       float64
	Percentage     float64
	TotalQuestions int
	CorrectCount   int
}

// NormalizeAnswer trims surrounding whitespace and case-folds, so "Paris " and
// "paris" compare equal.
func NormalizeAnswer(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// AnswerMatches reports whether selected equals any acceptable value after normalization.
func AnswerMatches(key model.AnswerKey, selected string) bool {
	got := NormalizeAnswer(selected)
	for _, want := range key {
		if NormalizeAnswer(want) == got {
			return true
		}
	}
	return false
}

// Percentage is raw / (total * correctMark) * 100 rounded half away from zero.
// Results outside [0,100] are kept as is.
func Percentage(raw float64, total int, correctMark float64) float64 {
	divisor := float64(total) * correctMark
	if divisor == 0 {
		divisor = 1
	}
	return math.Round(raw / divisor * 100)
}

// ScoreAnswers grades submitted answers against the question set. Answers for
// questions outside the set are dropped, and only the first answer per question
// counts. Questions left unanswered add the unattempted mark to the raw score.
func ScoreAnswers(submitted []model.SubmittedAnswer, questions []model.Question, marks model.MarkWeights) ScoreResult {
	byID := make(map[string]*model.Question, len(questions))
	ids := make([]string, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		if _, dup := byID[q.ID]; dup {
			continue
		}
		byID[q.ID] = q
		ids = append(ids, q.ID)
	}

	scored := make([]model.SubmittedAnswer, 0, len(submitted))
	seen := make(map[string]bool, len(submitted))
	for _, answer := range submitted {
		id := answer.QuestionID.ID()
		q, ok := byID[id]
		if !ok {
			logger.Log.Warn("Answer references a question outside the test, skipped",
				zap.String("questionId", id))
			continue
		}
		if seen[id] {
			logger.Log.Warn("Duplicate answer ignored", zap.String("questionId", id))
			continue
		}
		seen[id] = true

		graded := model.SubmittedAnswer{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
		}
		var correct bool
		var score float64
		if answer.Attempted() {
			correct = AnswerMatches(q.CorrectAnswer, *answer.SelectedOption)
			score = marks.For(correct)
		} else {
			score = marks.Unattempted
		}
		graded.IsCorrect = &correct
		graded.Score = &score
		scored = append(scored, graded)
	}

	agg := AggregateAnswers(scored, ids, marks)
	return ScoreResult{
		Answers:        scored,
		RawScore:       agg.RawScore,
		Percentage:     agg.Percentage,
		TotalQuestions: agg.TotalQuestions,
		CorrectCount:   agg.CorrectCount,
	}
}

// AggregateAnswers sums the stored scores of answers to questions in
// questionIDs and charges the unattempted mark for every question without an
// answer. Submission and regrading both go through here.
func AggregateAnswers(answers []model.SubmittedAnswer, questionIDs []string, marks model.MarkWeights) Aggregate {
	inSet := make(map[string]bool, len(questionIDs))
	for _, id := range questionIDs {
		inSet[id] = true
	}

	var agg Aggregate
	agg.TotalQuestions = len(inSet)
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		id := a.QuestionID.ID()
		if !inSet[id] || answered[id] {
			continue
		}
		answered[id] = true
		if a.Score != nil {
			agg.RawScore += *a.Score
		}
		if a.IsCorrect != nil && *a.IsCorrect {
			agg.CorrectCount++
		}
	}
	agg.RawScore += float64(agg.TotalQuestions-len(answered)) * marks.Unattempted
	agg.Percentage = Percentage(agg.RawScore, agg.TotalQuestions, marks.Correct)
	return agg
}

// resolveQuestionSet loads the test's questions in test order, dropping ids
// that no longer resolve and repeated ids.
func resolveQuestionSet(ctx context.Context, store QuestionStore, test *model.Test) ([]model.Question, error) {
	ids := uniqueIDs(test.QuestionIDs)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := store.FindQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	byID := make(map[string]model.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	questions := make([]model.Question, 0, len(found))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func questionIDs(questions []model.Question) []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
