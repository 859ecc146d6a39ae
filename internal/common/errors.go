// Package common defines shared sentinel errors and small helpers used
// across TaskVault layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors carrying the exact client-facing message.
	ErrorInvalidEmail     = errors.New("a valid email is required")
	ErrorPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrorTitleRequired    = errors.New("title is required")
	ErrorInvalidStatus    = errors.New("status must be todo, in_progress, or done")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
)
