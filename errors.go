package authcore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEngineNotReady is returned when a method is invoked on a nil or
	// incompletely constructed Engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrDuplicateEmail is returned by Register when the store already holds
	// the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for unknown email and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid is returned when a token fails verification or is of
	// the wrong kind for the operation.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenNotFound is returned when no matching non-revoked refresh
	// record exists in the store.
	ErrTokenNotFound = errors.New("token not found")
	// ErrUserNotFound is returned when a resolved user ID no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrWeakPassword is the sentinel wrapped by WeakPasswordError.
	ErrWeakPassword = errors.New("password policy violation")
	// ErrResetNotConfigured is returned by the password-reset operations when
	// no ResetTokenResolver was supplied at build time.
	ErrResetNotConfigured = errors.New("password reset resolver not configured")
)

// WeakPasswordError carries the ordered violation names produced by the
// policy engine. It unwraps to [ErrWeakPassword].
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password policy violation: %s", strings.Join(e.Violations, ", "))
}

func (e *WeakPasswordError) Unwrap() error {
	return ErrWeakPassword
}
