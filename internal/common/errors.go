// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authentication errors. ErrNoRegisteredUser must stay distinct from
	// ErrInvalidCredentials: the first means "sign up first", the second
	// means "wrong email or password".
	ErrCredentialsRequired = errors.New("credentials required")
	ErrNoRegisteredUser    = errors.New("no registered user")
	ErrInvalidCredentials  = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// History ownership errors.
	ErrOwnerRequired = errors.New("record owner required")
	ErrNotOwned      = errors.New("record belongs to another user")

	// Validation errors.
	ErrValidation = errors.New("validation error")
)
