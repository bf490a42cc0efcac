package controller

import (
	"time"

	"quiz_backend/internal/model"

	"github.com/jinzhu/copier"
)

type StartAttemptReq struct {
	JoinCode string `json:"joinCode"`
}

type StartAttemptResp struct {
	AttemptID string    `json:"attemptId"`
	StartTime time.Time `json:"startTime"`
}

type SubmitAnswersReq struct {
	Answers []model.SubmittedAnswer `json:"answers"`
}

type ProgressReq struct {
	Answers  map[string]string `json:"answers"`
	TimeLeft int               `json:"timeLeft"`
	Current  int               `json:"current"`
}

type ProgressResp struct {
	Answers    map[string]string `json:"answers"`
	TimeLeft   int               `json:"timeLeft"`
	Current    int               `json:"current"`
	LastUpdate *time.Time        `json:"lastUpdate,omitempty"`
}

// GradeReq identifies the answer by its question; answerId is accepted as an alias.
type GradeReq struct {
	QuestionID     string `json:"questionId"`
	AnswerID       string `json:"answerId"`
	IsCorrect      *bool  `json:"isCorrect" binding:"required"`
	TeacherComment string `json:"teacherComment"`
}

func (r GradeReq) question() string {
	if r.QuestionID != "" {
		return r.QuestionID
	}
	return r.AnswerID
}

// TestSummary is a test as listed to students.
type TestSummary struct {
	ID              string           `json:"id"`
	TeacherID       uint             `json:"teacherId"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Duration        int              `json:"duration"`
	Visibility      model.Visibility `json:"visibility"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	CorrectMark     float64          `json:"correctMark"`
	IncorrectMark   float64          `json:"incorrectMark"`
	UnattemptedMark float64          `json:"unattemptedMark"`
	QuestionCount   int              `json:"questionCount"`
}

// QuestionView is a question without its answer key.
type QuestionView struct {
	ID           string             `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Options      []string           `json:"options"`
	Topic        string             `json:"topic,omitempty"`
	Difficulty   string             `json:"difficulty,omitempty"`
}

type StudentTestResp struct {
	TestSummary
	Questions []QuestionView `json:"questions"`
}

type AttemptSummary struct {
	ID        string     `json:"id"`
	StudentID uint       `json:"studentId"`
	TestID    string     `json:"testId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Score     *float64   `json:"score"`
	Status    string     `json:"status"`
}

const (
	statusActive    = "active"
	statusCompleted = "completed"
)

func toTestSummary(t *model.Test) (TestSummary, error) {
	var out TestSummary
	if err := copier.Copy(&out, t); err != nil {
		return out, err
	}
	out.QuestionCount = len(t.QuestionIDs)
	return out, nil
}

func toTestSummaries(tests []model.Test) ([]TestSummary, error) {
	out := make([]TestSummary, 0, len(tests))
	for i := range tests {
		s, err := toTestSummary(&tests[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toQuestionViews(questions []model.Question) ([]QuestionView, error) {
	out := make([]QuestionView, 0, len(questions))
	if err := copier.Copy(&out, &questions); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Options == nil {
			out[i].Options = []string{}
		}
	}
	return out, nil
}

func toAttemptSummaries(attempts []model.Attempt) ([]AttemptSummary, error) {
	out := make([]AttemptSummary, 0, len(attempts))
	if err := copier.Copy(&out, &attempts); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Status = statusCompleted
		if attempts[i].IsActive() {
			out[i].Status = statusActive
		}
	}
	return out, nil
}

func toProgressResp(p model.AttemptProgress) ProgressResp {
	resp := ProgressResp{
		Answers:  p.Answers,
		TimeLeft: p.TimeLeft,
		Current:  p.Current,
	}
	if resp.Answers == nil {
		resp.Answers = map[string]string{}
	}
	if !p.LastUpdate.IsZero() {
		lu := p.LastUpdate
		resp.LastUpdate = &lu
	}
	return resp
}
