// Package common defines shared constants and sentinel errors used across
// the kaffeekasse components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrPersistence marks a failed storage commit. Repositories wrap the
	// driver error so the cause stays inspectable while callers can still
	// match with errors.Is. The transaction is never partially applied.
	ErrPersistence = errors.New("persistence error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors.
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrCredentialsTooShort = errors.New("username and password must be at least four characters long")

	// ErrInvalidAmount rejects deposit amounts that are not positive or
	// carry more than two fractional digits.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrCooldownActive is the normal denial outcome of a gated action:
	// the reason's interval has not elapsed yet. No ledger write happens.
	ErrCooldownActive = errors.New("cooldown active")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
