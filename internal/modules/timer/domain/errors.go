package domain

import (
	"fmt"

	apperrors "timebox/internal/platform/errors"
)

type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed while %s", e.Op, e.State)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == apperrors.ErrInvalidState
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", apperrors.ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == apperrors.ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
