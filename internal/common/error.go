// Package common defines shared constants and sentinel errors used across
// the layers of SessionKeeper. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential verification. Deliberately undifferentiated: callers must
	// not learn whether the email or the password was wrong.
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrorNotSignedIn = errors.New("not signed in")
	ErrTokenExpired  = errors.New("token expired")
)
