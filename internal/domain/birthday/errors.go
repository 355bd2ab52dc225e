package birthday

import "errors"

var (
	ErrNotBirthdayToday = errors.New("holder's birthday is not today")
	ErrNoBirthDate      = errors.New("holder has no birth date on file")
	ErrPassNotFound     = errors.New("birthday pass not found")
	ErrPassAlreadyUsed  = errors.New("birthday pass already used")
)
