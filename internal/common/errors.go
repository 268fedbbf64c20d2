// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrVersionConflict = errors.New("version conflict")

	// Validation errors for member records and requests.
	ErrorValidation = errors.New("validation error")

	// ErrNotActive is returned when an action needs a verified (Active) member.
	ErrNotActive = errors.New("member is not active")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
