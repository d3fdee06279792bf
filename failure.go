package adminauth

import (
	"errors"
	"time"
)

// ReasonCode is the stable machine-readable classification of a rejected
// operation, intended for transport layers mapping failures to responses.
type ReasonCode string

const (
	ReasonInvalidCredentials      ReasonCode = "invalid_credentials"
	ReasonAccountLocked           ReasonCode = "account_locked"
	ReasonAccountDisabled         ReasonCode = "account_disabled"
	ReasonSecondFactorRequired    ReasonCode = "second_factor_required"
	ReasonInvalidSecondFactorCode ReasonCode = "invalid_second_factor_code"
	ReasonRateLimited             ReasonCode = "rate_limited"
	ReasonInvalidToken            ReasonCode = "invalid_token"
	ReasonWeakPassword            ReasonCode = "weak_password"
	ReasonPasswordReuse           ReasonCode = "password_reuse"
	ReasonPermissionDenied        ReasonCode = "permission_denied"
	ReasonInternal                ReasonCode = "internal"
)

// Failure is the discriminated rejection shape exposed to transport
// layers. Hint fields are populated only when the underlying error
// carries them.
type Failure struct {
	Code              ReasonCode    `json:"code"`
	Message           string        `json:"message"`
	RetryAfter        time.Duration `json:"retryAfter,omitempty"`
	RemainingAttempts int           `json:"remainingAttempts,omitempty"`
	Violations        []string      `json:"violations,omitempty"`
}

// FailureFromError classifies an authority error. Unrecognized errors,
// including store connectivity failures, map to ReasonInternal with a
// generic message so nothing about the backend leaks to callers.
func FailureFromError(err error) Failure {
	var (
		credErr *CredentialsError
		lockErr *LockedError
		rateErr *RateLimitedError
		weakErr *WeakPasswordError
	)

	switch {
	case errors.As(err, &rateErr):
		return Failure{Code: ReasonRateLimited, Message: rateErr.Error(), RetryAfter: rateErr.RetryAfter}
	case errors.As(err, &lockErr):
		return Failure{Code: ReasonAccountLocked, Message: lockErr.Error(), RetryAfter: lockErr.Remaining}
	case errors.As(err, &credErr):
		return Failure{Code: ReasonInvalidCredentials, Message: credErr.Error(), RemainingAttempts: credErr.RemainingAttempts}
	case errors.As(err, &weakErr):
		return Failure{Code: ReasonWeakPassword, Message: weakErr.Error(), Violations: weakErr.Violations}
	case errors.Is(err, ErrInvalidCredentials):
		return Failure{Code: ReasonInvalidCredentials, Message: ErrInvalidCredentials.Error()}
	case errors.Is(err, ErrAccountLocked):
		return Failure{Code: ReasonAccountLocked, Message: ErrAccountLocked.Error()}
	case errors.Is(err, ErrAccountDisabled):
		return Failure{Code: ReasonAccountDisabled, Message: ErrAccountDisabled.Error()}
	case errors.Is(err, ErrInvalidSecondFactorCode):
		return Failure{Code: ReasonInvalidSecondFactorCode, Message: ErrInvalidSecondFactorCode.Error()}
	case errors.Is(err, ErrRateLimited):
		return Failure{Code: ReasonRateLimited, Message: ErrRateLimited.Error()}
	case errors.Is(err, ErrInvalidToken):
		return Failure{Code: ReasonInvalidToken, Message: ErrInvalidToken.Error()}
	case errors.Is(err, ErrWeakPassword):
		return Failure{Code: ReasonWeakPassword, Message: ErrWeakPassword.Error()}
	case errors.Is(err, ErrPasswordReuse):
		return Failure{Code: ReasonPasswordReuse, Message: ErrPasswordReuse.Error()}
	case errors.Is(err, ErrPermissionDenied):
		return Failure{Code: ReasonPermissionDenied, Message: err.Error()}
	default:
		return Failure{Code: ReasonInternal, Message: "internal error"}
	}
}
