package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingID is returned when an operation needs a record id and none could be resolved.
	ErrMissingID = errors.New("missing record id")
	// ErrQuestionNotFound indicates a question id is not part of the loaded quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuizNotActive is returned for answer actions outside an active quiz.
	ErrQuizNotActive = errors.New("quiz is not active")
	// ErrAlreadySubmitted guards graded answers from being changed.
	ErrAlreadySubmitted = errors.New("answer already submitted")
	// ErrSubmissionInFlight is returned while a grading request for the question is outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrEmptyAnswer is returned when submitting without a selected answer.
	ErrEmptyAnswer = errors.New("no answer selected")
	// ErrLoadInProgress is returned when questions are requested twice concurrently.
	ErrLoadInProgress = errors.New("question load already in progress")
	// ErrScenarioUnavailable means the interview cannot start without phase data.
	ErrScenarioUnavailable = errors.New("interview scenarios unavailable")
	// ErrInterviewNotActive is returned for question actions outside an interview phase.
	ErrInterviewNotActive = errors.New("interview is not in progress")
	// ErrInterviewInProgress is returned when content is swapped mid-interview.
	ErrInterviewInProgress = errors.New("interview in progress")
	// ErrDeleteNotConfirmed is returned when the user declines a delete prompt.
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")
	// ErrWorkspaceNotFound is returned when a session id has no workspace.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrInvalidStatus indicates an unknown application status filter.
	ErrInvalidStatus = errors.New("invalid application status")
)

// ValidationError is a user-visible input problem detected before any network call.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
