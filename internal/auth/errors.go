package auth

import "errors"

// Credential verification failures.
var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Token and access failures.
var (
	ErrTokenMissing     = errors.New("token missing")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenTampered    = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrInsufficientRole = errors.New("insufficient role")
)
