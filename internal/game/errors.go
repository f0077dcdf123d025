package game

import "errors"

// Rejected commands return one of these errors and leave the state unchanged.
var (
	ErrWrongPhase       = errors.New("action not allowed in this phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrIllegalCard      = errors.New("card may not be played now")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrCantoUnavailable = errors.New("canto not available")
	ErrUnknownAction    = errors.New("unknown action")
	ErrHandInProgress   = errors.New("hand still in progress")
	ErrGameOver         = errors.New("game is already over")
	ErrBusy             = errors.New("previous action still settling")
	ErrInvalidDeal      = errors.New("invalid deal")
)
