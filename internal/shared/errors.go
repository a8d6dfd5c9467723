package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Absent users and wrong
	// passwords map to the same error so responses never leak which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken occurs when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken covers bad signatures, expiry and type mismatches.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInactive indicates a disabled account.
	ErrInactive = errors.New("account inactive")
	// ErrTooManyAttempts indicates the login failure budget was exceeded.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
