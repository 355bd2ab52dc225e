package card

import "errors"

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrDuplicateActiveCard = errors.New("holder already has an active card")
	ErrNoClassesRemaining  = errors.New("no classes remaining on card")
	ErrSubscriptionDeduct  = errors.New("subscriptions are attendance-only and never deducted")
)

// NoCardReason tells the client why a holder has no usable card, since "buy
// a card", "wait for renewal" and "renew now" are different prompts.
type NoCardReason string

const (
	ReasonNoCards      NoCardReason = "no_cards"
	ReasonAllExhausted NoCardReason = "exhausted"
	ReasonAllExpired   NoCardReason = "expired"
)
