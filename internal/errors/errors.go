package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the credential core. Handlers collapse the
// authentication failures into a single generic "unauthenticated" response;
// the distinct sentinels exist so logs can tell the cases apart.
var (
	// Token errors
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrTokenRevoked     = errors.New("token revoked")

	// Rotation errors
	ErrRefreshReused = errors.New("refresh token already used or revoked")

	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")

	// Rate limiting
	ErrTooManyAttempts = errors.New("too many login attempts")

	// Sync errors (absorbed by the sync loop, never surfaced to callers)
	ErrSyncUnreachable = errors.New("revocation sync source unreachable")

	// Input validation
	ErrValidation = errors.New("invalid input")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsAuthFailure reports whether err belongs to the family of failures that
// must be indistinguishable at the transport boundary.
func IsAuthFailure(err error) bool {
	for _, target := range []error{
		ErrInvalidSignature,
		ErrTokenExpired,
		ErrWrongTokenType,
		ErrTokenRevoked,
		ErrRefreshReused,
		ErrInvalidCredentials,
		ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
