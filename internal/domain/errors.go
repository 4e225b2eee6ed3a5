package domain

import "errors"

var (
	// ErrGameNotFound is returned when no game exists for a code.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNotFound is returned when a player acts before joining.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrTeamNotFound indicates a team id that does not belong to the game.
	ErrTeamNotFound = errors.New("team not found")
	// ErrQuestionSetNotFound indicates the question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrInvalidState is returned for commands issued in a forbidden game status.
	ErrInvalidState = errors.New("invalid game state")
	// ErrUnauthorized is returned when a non-host issues a host-only command.
	ErrUnauthorized = errors.New("not authorized")
	// ErrAlreadyActed covers duplicate buzzes, duplicate toss-up submissions and
	// resubmissions on a fully revealed question.
	ErrAlreadyActed = errors.New("already acted")
	// ErrValidation is returned for malformed or incomplete payloads.
	ErrValidation = errors.New("validation failed")
)
