package services

import "errors"

var (
	ErrInvalidDraw       = errors.New("invalid draw")
	ErrEmptyPool         = errors.New("no participants loaded")
	ErrNoPrizeConfigured = errors.New("no prize configured")
	ErrPoolExhausted     = errors.New("every ticket has already won")
	ErrDrawInProgress    = errors.New("a draw is awaiting confirmation")
	ErrNoPendingDraw     = errors.New("no draw is awaiting confirmation")
	ErrInvalidConfig     = errors.New("invalid engine config")
)
