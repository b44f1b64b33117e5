// Package service contains the account, session and task logic sitting
// between the HTTP handlers and the database
package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrAuthenticationFailed = errors.New("unable to login")
	ErrUnauthorized         = errors.New("please authenticate")
	ErrNotFound             = errors.New("not found")
	ErrInvalidUpdate        = errors.New("invalid updates")
	ErrUploadRejected       = errors.New("upload rejected")
	ErrPersistence          = errors.New("persistence error")

	ErrEmailTaken = errors.New("email is already registered")
)

// ValidationError reports the field an entity failed validation on.
// It matches ErrValidationFailed with errors.Is
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func persistErr(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
