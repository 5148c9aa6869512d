package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question index is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotStarted is returned when acting on a session before Start.
	ErrSessionNotStarted = errors.New("quiz session not started")
	// ErrSessionFinished is returned when acting on a finished session.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrAlreadyAnswered is returned on re-submission for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrParticipantNotFound is returned when a user acts before joining.
	ErrParticipantNotFound = errors.New("participant not found in arena")
)
