package errors

import "errors"

var (
	ErrInvalidActivity   = errors.New("invalid activity")
	ErrDuplicateActivity = errors.New("activity already recorded")
	ErrInvalidListFilter = errors.New("invalid activity list filter")
	ErrInvalidRetention  = errors.New("retention must be positive")
)
