package errors

import "errors"

var (
	ErrInvalidCapsuleID = errors.New("invalid capsule id")
	ErrCapsuleNotFound  = errors.New("capsule not found")
	ErrCapsuleSealed    = errors.New("capsule is still sealed")
	ErrInvalidPage      = errors.New("invalid page request")
)
