package repository

import "errors"

var (
	// ErrDuplicateEmail is returned when a create collides with an existing
	// account's email. The compare is case-insensitive.
	ErrDuplicateEmail = errors.New("an account with this email already exists")

	// ErrNotFound is returned by id/email lookups that match nothing.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is the single error for both "unknown email" and
	// "wrong password", so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTimeout is returned when the storage round-trip exceeded its deadline.
	ErrTimeout = errors.New("storage operation timed out")

	// ErrMalformedInput is returned when a required field is missing or an
	// input fails validation before any write is attempted.
	ErrMalformedInput = errors.New("malformed input")
)
