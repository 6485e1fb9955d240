// Package common defines shared constants and sentinel errors used across
// client and server layers of the agenda. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal          = errors.New("internal error")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// Raised by the storage sweeper when it cannot even enumerate keys.
	// Never shown to the user; the session controller purges instead.
	ErrStorageSweepFailed = errors.New("storage sweep failed")

	// Matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError reports a pre-write check that failed for a single form
// field. Field carries the form's field name (e.g. "horario").
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is a shorthand used by the form checks.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
