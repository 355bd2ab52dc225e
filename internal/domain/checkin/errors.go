package checkin

import (
	"errors"

	"fitstudio/internal/domain/card"
)

var (
	ErrInvalidIdentifier = errors.New("invalid or missing holder identifier")
	ErrInvalidMode       = errors.New("invalid check-in mode")
	ErrNoActiveCard      = errors.New("holder has no active card")
	ErrNoBirthdayPass    = errors.New("no birthday pass for holder today")
)

// NoActiveCardError wraps ErrNoActiveCard with the reason a resolution came
// up empty, so the client can prompt "buy", "top up" or "renew".
type NoActiveCardError struct {
	Reason card.NoCardReason
}

func (e *NoActiveCardError) Error() string { return ErrNoActiveCard.Error() + ": " + string(e.Reason) }
func (e *NoActiveCardError) Unwrap() error { return ErrNoActiveCard }
