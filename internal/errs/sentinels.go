// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrUnauthenticated indicates that no credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates a presented credential that cannot be used.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials indicates a failed login. It never says which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRegistrationFailed indicates the account could not be stored.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited indicates the client exhausted its request budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrInternal indicates a store or hashing failure.
	ErrInternal = errors.New("internal failure")
)
