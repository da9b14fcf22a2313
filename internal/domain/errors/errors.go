// Package errors defines the error types shared across the user-service.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Generic errors
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")

	// Verification errors
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrRateLimitExceeded       = errors.New("too many verification codes requested, try again later")

	// Registration errors
	ErrUsernameExists = errors.New("username already taken")
	ErrEmailExists    = errors.New("email already registered")
	ErrPhoneExists    = errors.New("phone number already registered")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotActive      = errors.New("account is disabled or locked")
	ErrUserLockedOut      = errors.New("too many failed login attempts, try again later")

	// Token errors
	ErrTokenNotFound = errors.New("token not found or expired")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store wraps an underlying key-value or database failure so callers can
// distinguish infrastructure problems from business-rule rejections.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameExists) ||
		errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrPhoneExists)
}

// IsUnauthorized reports whether err should map to a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenNotFound)
}

// IsForbidden reports whether err should map to a 403.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrUserNotActive) ||
		errors.Is(err, ErrUserLockedOut)
}

// IsBadRequest reports whether err is a client-input problem.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidVerificationCode)
}

// IsUnavailable reports whether err is an infrastructure failure rather than
// a business outcome.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
