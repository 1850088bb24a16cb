package memecat

import "errors"

var (
	// ErrNotFound is returned when a lookup by id or name misses.
	ErrNotFound = errors.New("not found")
	// ErrUnprocessable is returned when a blob-store write could not be confirmed.
	ErrUnprocessable = errors.New("unprocessable entity")
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned when token issuance is refused.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer token is malformed, expired,
	// or carries a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned when a token subject no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrAuthenticationFailed is returned when the gateway cannot authenticate
	// against the blob-store boundary.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrStorageUnavailable is returned on blob-store backend I/O failure
	// not otherwise classified.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
