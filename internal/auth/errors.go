package auth

import "errors"

var (
	// ErrMissingToken is returned when the request carries no token.
	ErrMissingToken = errors.New("not authenticated")

	// ErrInvalidToken is returned for tokens with a bad signature, algorithm or claims.
	ErrInvalidToken = errors.New("session is invalid or has expired")

	// ErrTokenRevoked is returned for tokens that were logged out.
	ErrTokenRevoked = errors.New("session has been logged out")

	// ErrAccountGone is returned for tokens of deleted accounts.
	ErrAccountGone = errors.New("account no longer exists")

	// ErrEmptySecret is returned when no signing secret is configured.
	ErrEmptySecret = errors.New("jwt secret is empty")
)
