package model

import (
	"slices"
	"time"
)

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityEnrolled Visibility = "enrolled"
	VisibilityCode     Visibility = "code"
)

// MarkWeights are the per-test points for correct, incorrect and unattempted answers.
type MarkWeights struct {
	Correct     float64 `json:"correctMark"`
	Incorrect   float64 `json:"incorrectMark"`
	Unattempted float64 `json:"unattemptedMark"`
}

func DefaultMarks() MarkWeights {
	return MarkWeights{Correct: 1}
}

// For returns the mark for a graded answer.
func (m MarkWeights) For(correct bool) float64 {
	if correct {
		return m.Correct
	}
	return m.Incorrect
}

// swagger:model Test
type Test struct {
	UUIDBase
	TeacherID         uint       `gorm:"index;not null" json:"teacherId"`
	Title             string     `gorm:"size:200;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description,omitempty"`
	Duration          int        `gorm:"default:60" json:"duration"` // 分钟
	QuestionIDs       []string   `gorm:"serializer:json" json:"questions"`
	Visibility        Visibility `gorm:"size:16;default:'public'" json:"visibility"`
	JoinCode          string     `gorm:"size:32" json:"-"`
	AllowedStudentIDs []uint     `gorm:"serializer:json" json:"-"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	CorrectMark       float64    `gorm:"default:1" json:"correctMark"`
	IncorrectMark     float64    `gorm:"default:0" json:"incorrectMark"`
	UnattemptedMark   float64    `gorm:"default:0" json:"unattemptedMark"`
}

func (Test) TableName() string {
	return "tests"
}

func (t *Test) Marks() MarkWeights {
	return MarkWeights{
		Correct:     t.CorrectMark,
		Incorrect:   t.IncorrectMark,
		Unattempted: t.UnattemptedMark,
	}
}

// WindowOpen reports whether now falls inside [StartDate, EndDate]. Missing
// bounds are open-ended.
func (t *Test) WindowOpen(now time.Time) bool {
	if t.StartDate != nil && now.Before(*t.StartDate) {
		return false
	}
	if t.EndDate != nil && now.After(*t.EndDate) {
		return false
	}
	return true
}

func (t *Test) HasQuestion(questionID string) bool {
	return slices.Contains(t.QuestionIDs, questionID)
}

// VisibleTo applies the visibility rule for a student starting or viewing the test.
func (t *Test) VisibleTo(studentID uint, joinCode string) bool {
	switch t.Visibility {
	case VisibilityEnrolled:
		return slices.Contains(t.AllowedStudentIDs, studentID)
	case VisibilityCode:
		return t.JoinCode != "" && joinCode == t.JoinCode
	default:
		return true
	}
}

// ListableTo reports whether the test shows up in a student's catalogue. Code
// gated tests are listed but still need the code to be opened.
func (t *Test) ListableTo(studentID uint) bool {
	if t.Visibility == VisibilityEnrolled {
		return slices.Contains(t.AllowedStudentIDs, studentID)
	}
	return true
}
