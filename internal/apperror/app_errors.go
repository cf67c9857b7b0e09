package apperror

import "errors"

var (
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidBoard = errors.New("invalid board")

	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameInProgress   = errors.New("game is already in progress")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrUnknownInput     = errors.New("unknown input")
	ErrInvalidMark      = errors.New("invalid mark")

	ErrSessionNotFound = errors.New("session not found")
)
