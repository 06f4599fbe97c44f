package game

import "errors"

// Configuration errors: fatal to the call, never mutate state. Callers
// may correct their input and retry.
var (
	ErrGameOver         = errors.New("game is over")
	ErrGamePaused       = errors.New("game is paused")
	ErrGameStarted      = errors.New("game has already started")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrGameNotReady     = errors.New("edition has not been loaded")
	ErrGameFull         = errors.New("game already has the maximum number of players")
	ErrTooFewPlayers    = errors.New("not enough players to start")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrUnknownPlayer    = errors.New("no such player in this game")
	ErrBadMove          = errors.New("invalid move")
	ErrBagTooSmall      = errors.New("not enough tiles in the bag")
	ErrNoPreviousMove   = errors.New("there is no previous move")
	ErrTakeBackDisabled = errors.New("take-backs are not allowed in this game")
	ErrCannotChallenge  = errors.New("player may not challenge")
)

// Invariant violations: programming-level faults. They abort the
// operation and are always logged; they are never silently swallowed.
var (
	ErrMultipleEmptyRacks = errors.New("more than one player has an empty rack")
)
