package util

import (
	"errors"
	"net/http"
)

// ReasonError carries a stable machine-readable reason code next to the message
// shown to users. Specific failures wrap one of the sentinels below.
type ReasonError struct {
	Reason  string
	Message string
	Status  int
}

func (e *ReasonError) Error() string {
	return e.Message
}

// Is matches any ReasonError with the same reason, so specific errors such as
// ErrTestNotFound satisfy errors.Is(err, ErrNotFound).
func (e *ReasonError) Is(target error) bool {
	t, ok := target.(*ReasonError)
	return ok && t.Reason == e.Reason
}

// Wrap keeps the reason and status but replaces the message.
func (e *ReasonError) Wrap(message string) *ReasonError {
	return &ReasonError{Reason: e.Reason, Message: message, Status: e.Status}
}

const (
	ReasonNotFound         = "NotFound"
	ReasonForbidden        = "Forbidden"
	ReasonWindowClosed     = "WindowClosed"
	ReasonAlreadyActive    = "AlreadyActive"
	ReasonAlreadyCompleted = "AlreadyCompleted"
	ReasonNoQuestions      = "NoQuestions"
	ReasonPersistenceError = "PersistenceError"
)

var (
	ErrNotFound         = &ReasonError{Reason: ReasonNotFound, Message: "resource not found", Status: http.StatusNotFound}
	ErrForbidden        = &ReasonError{Reason: ReasonForbidden, Message: "permission denied", Status: http.StatusForbidden}
	ErrWindowClosed     = &ReasonError{Reason: ReasonWindowClosed, Message: "test is not currently active", Status: http.StatusForbidden}
	ErrAlreadyActive    = &ReasonError{Reason: ReasonAlreadyActive, Message: "an attempt for this test is already in progress", Status: http.StatusBadRequest}
	ErrAlreadyCompleted = &ReasonError{Reason: ReasonAlreadyCompleted, Message: "attempt already submitted", Status: http.StatusBadRequest}
	ErrNoQuestions      = &ReasonError{Reason: ReasonNoQuestions, Message: "test has no questions", Status: http.StatusBadRequest}
	ErrPersistence      = &ReasonError{Reason: ReasonPersistenceError, Message: "storage failure", Status: http.StatusInternalServerError}
)

var (
	ErrTestNotFound      = ErrNotFound.Wrap("test not found")
	ErrAttemptNotFound   = ErrNotFound.Wrap("attempt not found")
	ErrQuestionNotFound  = ErrNotFound.Wrap("question not found")
	ErrNotAttemptOwner   = ErrForbidden.Wrap("attempt belongs to another student")
	ErrNotTestOwner      = ErrForbidden.Wrap("test belongs to another teacher")
	ErrTestNotVisible    = ErrForbidden.Wrap("test is not visible to this student")
	ErrAttemptInProgress = ErrAlreadyActive.Wrap("attempt is still in progress")
)

type persistenceError struct {
	cause error
}

func (e *persistenceError) Error() string {
	return "persistence error: " + e.cause.Error()
}

func (e *persistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.cause}
}

// NewPersistenceError tags a storage failure without hiding its cause.
func NewPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	var re *ReasonError
	if errors.As(err, &re) {
		return err
	}
	return &persistenceError{cause: err}
}

// ReasonOf returns the reason sentinel found in err's chain, or nil.
func ReasonOf(err error) *ReasonError {
	var re *ReasonError
	if errors.As(err, &re) {
		return re
	}
	return nil
}
