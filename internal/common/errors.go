// Package common defines shared sentinel errors used across the user
// directory. Callers should use errors.Is to match these values; the
// persistence and auth layers wrap them with context via fmt.Errorf("%w").
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Write-protocol errors.
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Token errors. A structurally valid but expired token is kept distinct
	// from a malformed or badly signed one.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Anything unexpected from the store or the hashing layer.
	ErrInternal = errors.New("internal error")
)
