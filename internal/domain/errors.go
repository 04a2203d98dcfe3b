package domain

import "errors"

var (
	// ErrInvalidInput is returned when a submission is missing its problem
	// id or its answers sequence.
	ErrInvalidInput = errors.New("missing problem id or answers")
	// ErrProblemNotFound indicates the referenced problem does not exist.
	ErrProblemNotFound = errors.New("problem not found")
	// ErrQuizNotFound indicates the problem has no quiz or the quiz is disabled.
	ErrQuizNotFound = errors.New("quiz not found for this problem")
	// ErrUnauthorized is returned when no verified student identity is available.
	ErrUnauthorized = errors.New("no authenticated student identity")
	// ErrResponseNotFound indicates no stored response exists for the pair.
	ErrResponseNotFound = errors.New("quiz response not found")
)
