package auth

import "errors"

var (
	// Token decode failures. Every one of them means the request carries no
	// principal; the split exists for logging and tests, not for callers to
	// branch on leniently.
	ErrTokenMalformed = errors.New("auth: malformed token")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")

	// ErrInvalidCredentials covers unknown subject, inactive account and wrong
	// password alike. Callers never learn which.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrForbidden means the principal is valid but its role is not allowed.
	ErrForbidden = errors.New("auth: forbidden")
)
