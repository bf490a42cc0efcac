package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	FillBlank      QuestionType = "fill_blank"
	ShortAnswer    QuestionType = "short_answer"
)

// swagger:model Question
type Question struct {
	UUIDBase
	TeacherID     uint         `gorm:"index;not null" json:"teacherId"`
	QuestionText  string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType `gorm:"size:32;default:'multiple_choice'" json:"questionType"`
	Options       []string     `gorm:"serializer:json" json:"options"`
	CorrectAnswer AnswerKey    `gorm:"serializer:json" json:"correctAnswer"`
	Topic         string       `gorm:"size:100" json:"topic,omitempty"`
	Difficulty    string       `gorm:"size:20" json:"difficulty,omitempty"`
	Explanation   string       `gorm:"type:text" json:"explanation,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// AnswerKey is the set of acceptable answers for a question. On the wire it is
// either a single string or an array of strings.
type AnswerKey []string

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*k = nil
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = AnswerKey{s}
		return nil
	case data[0] == '[':
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*k = values
		return nil
	default:
		return fmt.Errorf("correct answer must be a string or an array of strings, got %s", data)
	}
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if len(k) == 1 {
		return json.Marshal(k[0])
	}
	if k == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(k))
}
