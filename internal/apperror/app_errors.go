package apperror

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrBadPassword      = errors.New("incorrect password")
	ErrDuplicateName    = errors.New("name is already taken in this session")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameAlreadyOver  = errors.New("game is already over")
	ErrIllegalMove      = errors.New("illegal move")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrUnknownSender    = errors.New("sender is not a player in this session")
	ErrInvalidName      = errors.New("player name must be 1-20 characters")
)
