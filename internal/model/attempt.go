package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// swagger:model Attempt
type Attempt struct {
	UUIDBase
	StudentID uint              `gorm:"not null;index:idx_attempt_lookup,priority:1" json:"studentId"`
	TestID    string            `gorm:"type:varchar(36);not null;index:idx_attempt_lookup,priority:2" json:"testId"`
	EndTime   *time.Time        `gorm:"index:idx_attempt_lookup,priority:3" json:"endTime"`
	StartTime time.Time         `gorm:"not null" json:"startTime"`
	Answers   []SubmittedAnswer `gorm:"serializer:json" json:"answers"`
	Score     *float64          `json:"score"`
	Progress  *AttemptProgress  `gorm:"serializer:json" json:"progress,omitempty"`

	// ActiveKey is "<studentId>:<testId>" while the attempt is open and NULL once
	// submitted; its unique index allows a single open attempt per student and test.
	ActiveKey *string `gorm:"size:100;uniqueIndex" json:"-"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) IsActive() bool {
	return a.EndTime == nil
}

func ActiveKeyFor(studentID uint, testID string) string {
	return fmt.Sprintf("%d:%s", studentID, testID)
}

// SubmittedAnswer is one answer inside an attempt. IsCorrect and Score stay nil
// until the answer has been graded.
type SubmittedAnswer struct {
	QuestionID     QuestionRef `json:"questionId"`
	SelectedOption *string     `json:"selectedOption,omitempty"`
	IsCorrect      *bool       `json:"isCorrect,omitempty"`
	Score          *float64    `json:"score,omitempty"`
	TeacherComment string      `json:"teacherComment,omitempty"`
}

// Attempted reports whether the student actually picked or typed something.
func (a SubmittedAnswer) Attempted() bool {
	return a.SelectedOption != nil && strings.TrimSpace(*a.SelectedOption) != ""
}

// QuestionRef identifies the question an answer belongs to. Clients send either
// the bare id (string or number) or the populated question object with an
// "id" or "_id" field; both decode to the same reference and always encode back
// as the bare id.
type QuestionRef struct {
	id     string
	nested bool
}

func NewQuestionRef(id string) QuestionRef {
	return QuestionRef{id: id}
}

func (r QuestionRef) ID() string {
	return r.id
}

// Nested reports whether the reference was decoded from an embedded object.
func (r QuestionRef) Nested() bool {
	return r.nested
}

func (r QuestionRef) Matches(questionID string) bool {
	return r.id != "" && r.id == questionID
}

func (r QuestionRef) String() string {
	return r.id
}

func (r QuestionRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}

func (r *QuestionRef) UnmarshalJSON(data []byte) error {
	id, nested, err := decodeQuestionRef(data, 0)
	if err != nil {
		return err
	}
	*r = QuestionRef{id: id, nested: nested}
	return nil
}

func decodeQuestionRef(data []byte, depth int) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false, nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		return strings.TrimSpace(s), false, nil
	case '{':
		if depth > 0 {
			return "", false, fmt.Errorf("question reference nested too deeply")
		}
		var obj struct {
			ID      json.RawMessage `json:"id"`
			MongoID json.RawMessage `json:"_id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", false, err
		}
		raw := obj.ID
		if len(raw) == 0 {
			raw = obj.MongoID
		}
		id, _, err := decodeQuestionRef(raw, depth+1)
		return id, true, err
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", false, fmt.Errorf("invalid question reference %s", data)
		}
		return n.String(), false, nil
	}
}

// AttemptProgress is the autosave snapshot of an open attempt.
type AttemptProgress struct {
	Answers    map[string]string `json:"answers"`
	TimeLeft   int               `json:"timeLeft"`
	Current    int               `json:"current"`
	LastUpdate time.Time         `json:"lastUpdate"`
}

// EmptyProgress is served when nothing was saved yet.
func EmptyProgress() AttemptProgress {
	return AttemptProgress{Answers: map[string]string{}}
}
