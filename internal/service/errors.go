package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInUse              = errors.New("in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError carries the message shown to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

type InUseError struct {
	Count int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("Category is used by %d product(s)", e.Count)
}

func (e *InUseError) Unwrap() error { return ErrInUse }

func invalid(msg string) error { return &ValidationError{Message: msg} }

func notFound(what string) error { return fmt.Errorf("%s %w", what, ErrNotFound) }
