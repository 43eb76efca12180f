// Package common defines shared constants and sentinel errors used across
// client and server layers of GophChat. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Session errors. ErrBusy means the per-user lock could not be acquired
	// in time, ErrTimeout that the answer generator did not reply in time.
	ErrBusy             = errors.New("busy")
	ErrTimeout          = errors.New("timeout")
	ErrGenerationFailed = errors.New("answer generation failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// IsRetryable reports whether err is a transient condition the caller may
// retry as is: a lock wait that ran out, a generator timeout or a generator
// failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrGenerationFailed)
}
