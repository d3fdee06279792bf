package adminauth

import (
	"errors"
	"testing"
	"time"
)

func TestFailureFromErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code ReasonCode
	}{
		{"invalid credentials", ErrInvalidCredentials, ReasonInvalidCredentials},
		{"locked", ErrAccountLocked, ReasonAccountLocked},
		{"disabled", ErrAccountDisabled, ReasonAccountDisabled},
		{"bad second factor", ErrInvalidSecondFactorCode, ReasonInvalidSecondFactorCode},
		{"rate limited", ErrRateLimited, ReasonRateLimited},
		{"invalid token", ErrInvalidToken, ReasonInvalidToken},
		{"weak password", ErrWeakPassword, ReasonWeakPassword},
		{"password reuse", ErrPasswordReuse, ReasonPasswordReuse},
		{"permission denied", ErrPermissionDenied, ReasonPermissionDenied},
		{"unknown", errors.New("pg: connection refused"), ReasonInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := FailureFromError(tc.err)
			if f.Code != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, f.Code)
			}
		})
	}
}

func TestFailureInternalHidesDetail(t *testing.T) {
	f := FailureFromError(errors.New("dial tcp 10.0.0.5:5432: connect: refused"))
	if f.Code != ReasonInternal {
		t.Fatalf("expected internal, got %s", f.Code)
	}
	if f.Message != "internal error" {
		t.Fatalf("backend detail leaked: %q", f.Message)
	}
}

func TestFailureCarriesHints(t *testing.T) {
	f := FailureFromError(&RateLimitedError{RetryAfter: 42 * time.Second, Message: "slow down"})
	if f.Code != ReasonRateLimited || f.RetryAfter != 42*time.Second || f.Message != "slow down" {
		t.Fatalf("rate limit hints lost: %+v", f)
	}

	f = FailureFromError(&LockedError{Remaining: 5 * time.Minute})
	if f.Code != ReasonAccountLocked || f.RetryAfter != 5*time.Minute {
		t.Fatalf("lock hints lost: %+v", f)
	}

	f = FailureFromError(&CredentialsError{RemainingAttempts: 2})
	if f.Code != ReasonInvalidCredentials || f.RemainingAttempts != 2 {
		t.Fatalf("attempt hints lost: %+v", f)
	}

	f = FailureFromError(&WeakPasswordError{Violations: []string{"too short"}})
	if f.Code != ReasonWeakPassword || len(f.Violations) != 1 {
		t.Fatalf("violations lost: %+v", f)
	}
}
