package adminauth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/ieclub/adminauth/internal/rate"
)

// LoginInput carries one login attempt. TOTPCode and RecoveryCode are
// mutually exclusive; when both are set the TOTP code wins. ClientAddress
// falls back to the address attached via WithClientAddress.
type LoginInput struct {
	Email         string
	Password      string
	TOTPCode      string
	RecoveryCode  string
	ClientAddress string
}

// Login authenticates an operator. Checks run in a fixed order: address
// rate limit, account existence, account status, lockout, password,
// second factor. When the operator has 2FA enabled and no code was
// supplied, Login returns a LoginResult with SecondFactorRequired set
// and a nil error; the caller resubmits the same credentials with a
// code. Tokens are only issued once every check has passed.
func (a *Authority) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if a == nil || a.store == nil {
		return nil, ErrAuthorityNotReady
	}

	now := time.Now().UTC()
	addr := in.ClientAddress
	if addr == "" {
		addr = clientAddressFromContext(ctx)
	}

	event := newAuditEvent("login")
	event.ClientAddr = addr

	if a.limiter != nil {
		retryAfter, err := a.limiter.Check(ctx, addr)
		if errors.Is(err, rate.ErrLimited) {
			a.metricInc(MetricLoginRateLimited)
			event.Error = "rate limited"
			a.emitAudit(ctx, event)
			return nil, &RateLimitedError{
				RetryAfter: retryAfter,
				Message:    a.config.RateLimit.Message,
			}
		}
		if err != nil {
			return nil, err
		}
	}

	op, err := a.store.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrOperatorNotFound) {
			// Unknown email burns budget and reports the same error as a
			// wrong password, so probes cannot enumerate accounts.
			a.recordAttempt(ctx, addr)
			a.metricInc(MetricLoginFailure)
			event.Error = ErrInvalidCredentials.Error()
			a.emitAudit(ctx, event)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	event.OperatorID = op.ID

	if op.Status != StatusActive {
		a.metricInc(MetricLoginFailure)
		event.Error = ErrAccountDisabled.Error()
		a.emitAudit(ctx, event)
		return nil, ErrAccountDisabled
	}

	// Lockout is checked before the password so a locked account leaks
	// nothing about whether the submitted password was right.
	if err := a.lockout.check(ctx, op, now); err != nil {
		var lockErr *LockedError
		if errors.As(err, &lockErr) {
			a.recordAttempt(ctx, addr)
			a.metricInc(MetricLoginLocked)
			event.Error = err.Error()
			a.emitAudit(ctx, event)
		}
		return nil, err
	}

	if !a.hasher.Verify(in.Password, op.PasswordHash) {
		return nil, a.failLogin(ctx, event, op, now, ErrInvalidCredentials)
	}

	if op.TwoFactorEnabled {
		switch {
		case in.TOTPCode != "":
			ok, err := a.totp.VerifyCode(op.TwoFactorSecret, strings.TrimSpace(in.TOTPCode), now)
			if err != nil {
				return nil, err
			}
			if !ok {
				a.metricInc(MetricSecondFactorFailure)
				return nil, a.failLogin(ctx, event, op, now, ErrInvalidSecondFactorCode)
			}
			a.metricInc(MetricSecondFactorSuccess)

		case in.RecoveryCode != "":
			ok, remaining := a.hasher.ConsumeCode(strings.TrimSpace(in.RecoveryCode), op.RecoveryCodeHashes)
			if !ok {
				a.metricInc(MetricSecondFactorFailure)
				return nil, a.failLogin(ctx, event, op, now, ErrInvalidSecondFactorCode)
			}
			upd := OperatorUpdate{RecoveryCodeHashes: remaining}
			if len(remaining) == 0 {
				upd.ClearRecoveryCodeHashes = true
			}
			if err := a.store.Update(ctx, op.ID, upd); err != nil {
				return nil, err
			}
			a.metricInc(MetricRecoveryCodeUsed)
			a.metricInc(MetricSecondFactorSuccess)
			event.Detail = map[string]string{"second_factor": "recovery_code"}

		default:
			// Continuation, not a failure: password was right, so the
			// failed-login counter stays untouched.
			a.metricInc(MetricSecondFactorRequired)
			event.Detail = map[string]string{"outcome": "second_factor_required"}
			a.emitAudit(ctx, event)
			return &LoginResult{
				SecondFactorRequired: true,
				Operator:             op.Profile(),
			}, nil
		}
	}

	tokens, err := a.issuePair(op)
	if err != nil {
		return nil, err
	}

	zero := 0
	if err := a.store.Update(ctx, op.ID, OperatorUpdate{
		RefreshToken:     &tokens.RefreshToken,
		LastLoginAt:      &now,
		LastLoginAddr:    &addr,
		FailedLogins:     &zero,
		ClearLockedUntil: true,
	}); err != nil {
		return nil, err
	}
	op.FailedLogins = 0
	op.LockedUntil = nil
	op.LastLoginAt = &now
	op.LastLoginAddr = addr

	if a.limiter != nil {
		// Best effort: the login is already committed at this point.
		if err := a.limiter.Reset(ctx, addr); err != nil {
			log.Printf("adminauth: rate limit reset for %s: %v", addr, err)
		}
	}

	a.metricInc(MetricLoginSuccess)
	event.Success = true
	a.emitAudit(ctx, event)

	return &LoginResult{
		Operator: op.Profile(),
		Tokens:   tokens,
	}, nil
}

// failLogin handles the shared bookkeeping of a failed credential or
// second-factor check: it burns rate-limit budget, bumps the lockout
// counter, and wraps the cause with a hint when one applies.
func (a *Authority) failLogin(ctx context.Context, event AuditEvent, op *Operator, now time.Time, cause error) error {
	a.recordAttempt(ctx, event.ClientAddr)
	a.metricInc(MetricLoginFailure)

	remaining, locked, err := a.lockout.recordFailure(ctx, op, now)
	if err != nil {
		return err
	}

	var out error
	switch {
	case locked:
		a.metricInc(MetricLoginLocked)
		out = &LockedError{Remaining: a.config.Lockout.Window}
	case errors.Is(cause, ErrInvalidCredentials):
		out = &CredentialsError{RemainingAttempts: remaining}
	default:
		out = cause
	}

	event.Error = out.Error()
	a.emitAudit(ctx, event)
	return out
}

func (a *Authority) recordAttempt(ctx context.Context, addr string) {
	if a.limiter == nil {
		return
	}
	// Best effort: a Redis outage must not turn failed logins into
	// internal errors.
	_ = a.limiter.Record(ctx, addr)
}

func (a *Authority) issuePair(op *Operator) (TokenPair, error) {
	access, err := a.tokens.IssueAccess(op.ID, op.TokenVersion)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := a.tokens.IssueRefresh(op.ID, op.TokenVersion)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
