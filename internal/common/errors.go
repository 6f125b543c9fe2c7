// Package common defines shared constants and sentinel errors used across
// timekeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level categories. Every client-facing failure unwraps to one of them.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("conflict")
	ErrorInvalidState = errors.New("invalid state")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// Domain failures surfaced to API clients.
var (
	ErrUserAlreadyExists  = NewError(ErrorConflict, "User already exists")
	ErrInvalidCredentials = NewError(ErrorUnauthorized, "Invalid credentials")
	ErrNoActiveSession    = NewError(ErrorInvalidState, "No active session found")
	ErrBreakInProgress    = NewError(ErrorConflict, "Break already in progress")
	ErrNoActiveBreak      = NewError(ErrorInvalidState, "No active break found")
	ErrMissingDateRange   = NewError(ErrorValidation, "Missing date range")
	ErrMissingFields      = NewError(ErrorValidation, "Missing fields")
	ErrInvalidRole        = NewError(ErrorValidation, "Invalid role")
	ErrInvalidDateRange   = NewError(ErrorValidation, "Invalid date range")
	ErrInvalidInterval    = NewError(ErrorValidation, "Invalid time interval")
	ErrUnknownUser        = NewError(ErrorValidation, "Unknown user")
)
