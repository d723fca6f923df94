package exam

import "errors"

var (
	// ErrInvalidIndex is returned when navigation targets a position outside [0, N).
	ErrInvalidIndex = errors.New("question index out of range")
	// ErrInvalidOption is returned when a selection is not one of 1..4.
	ErrInvalidOption = errors.New("option must be between 1 and 4")
	// ErrSessionClosed is returned for any mutation after the session expired or was submitted.
	ErrSessionClosed = errors.New("session is closed")

	ErrNoQuestions     = errors.New("session needs at least one question")
	ErrInvalidDuration = errors.New("duration limit must be positive")
	ErrInvalidQuestion = errors.New("malformed question")
)
