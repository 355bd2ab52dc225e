package holder

import "errors"

var (
	ErrNotFound    = errors.New("holder not found")
	ErrInvalidCode = errors.New("invalid scannable code")
)
