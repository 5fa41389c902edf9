package domain

import "errors"

// Registration conflicts
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

// Lookup failures
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrTokenNotFound   = errors.New("verification token not found")
)

// Login failures
var (
	ErrNotVerified    = errors.New("account not verified")
	ErrBadCredentials = errors.New("incorrect password")
)

// Password reset failures
var (
	ErrNoResetCode      = errors.New("no reset code issued")
	ErrInvalidResetCode = errors.New("invalid reset code")
	ErrResetCodeExpired = errors.New("reset code expired")
)
