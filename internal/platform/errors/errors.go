package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrInvalidState        = errors.New("invalid state")
	ErrPersistence         = errors.New("persistence failure")
	ErrCorruptSnapshot     = errors.New("corrupt session snapshot")
	ErrFeatureLocked       = errors.New("feature requires timebox pro")
)
