package catalog

import "errors"

var (
	ErrTypeNotFound    = errors.New("card type not found")
	ErrInvalidCategory = errors.New("invalid card type category")
	ErrInvalidCount    = errors.New("punch card types need a positive class count")
)
