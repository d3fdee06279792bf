package adminauth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the message never distinguishes the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked rejects credential checks while a lockout window is
	// in effect.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDisabled rejects every flow for deactivated operators.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrInvalidSecondFactorCode rejects a wrong TOTP or recovery code.
	ErrInvalidSecondFactorCode = errors.New("invalid second factor code")
	// ErrRateLimited rejects requests from an address over its login budget.
	ErrRateLimited = errors.New("too many login attempts")
	// ErrInvalidToken covers malformed, expired, wrong-class, stale-version
	// and replaced tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWeakPassword rejects a candidate password that fails strength
	// validation.
	ErrWeakPassword = errors.New("password strength insufficient")
	// ErrPasswordReuse rejects a password change where new equals old.
	ErrPasswordReuse = errors.New("new password must differ from current password")
	// ErrOperatorNotFound is returned by stores for unknown operator ids
	// or emails.
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrTwoFactorAlreadyEnabled rejects enrollment when 2FA is active.
	ErrTwoFactorAlreadyEnabled = errors.New("second factor already enabled")
	// ErrEnrollmentNotStarted rejects confirmation without a pending secret.
	ErrEnrollmentNotStarted = errors.New("second factor enrollment not started")
	// ErrAuthorityNotReady indicates the Authority was not fully built.
	ErrAuthorityNotReady = errors.New("authority not initialized")
)

// CredentialsError is an ErrInvalidCredentials carrying the number of
// attempts left before lockout. It is only produced for operators that
// exist, after the password comparison ran.
type CredentialsError struct {
	RemainingAttempts int
}

func (e *CredentialsError) Error() string { return ErrInvalidCredentials.Error() }

// Is makes the typed error match its sentinel.
func (e *CredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// LockedError is an ErrAccountLocked carrying the time remaining in the
// lockout window.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked, retry in %s", e.Remaining.Round(time.Second))
}

func (e *LockedError) Is(target error) bool { return target == ErrAccountLocked }

// RateLimitedError is an ErrRateLimited carrying the rejection message
// and a retry-after hint derived from the window reset time.
type RateLimitedError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// WeakPasswordError is an ErrWeakPassword carrying the itemized rule
// violations.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string { return ErrWeakPassword.Error() }

func (e *WeakPasswordError) Is(target error) bool { return target == ErrWeakPassword }
