package adminauth

import (
	"context"
	"time"

	"github.com/ieclub/adminauth/password"
)

// ChangePassword replaces the operator's password after verifying the
// current one. All outstanding tokens are revoked: the caller must log
// in again with the new password.
func (a *Authority) ChangePassword(ctx context.Context, operatorID, oldPassword, newPassword string) error {
	if a == nil || a.store == nil {
		return ErrAuthorityNotReady
	}

	event := newAuditEvent("change_password")
	event.OperatorID = operatorID

	op, err := a.store.FindByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if op.Status != StatusActive {
		return ErrAccountDisabled
	}

	if !a.hasher.Verify(oldPassword, op.PasswordHash) {
		a.metricInc(MetricPasswordChangeInvalidOld)
		event.Error = ErrInvalidCredentials.Error()
		a.emitAudit(ctx, event)
		return ErrInvalidCredentials
	}

	if oldPassword == newPassword {
		a.metricInc(MetricPasswordChangeReuseRejected)
		event.Error = ErrPasswordReuse.Error()
		a.emitAudit(ctx, event)
		return ErrPasswordReuse
	}

	if res := password.ValidateStrength(newPassword); !res.Valid {
		a.metricInc(MetricPasswordChangeWeakRejected)
		event.Error = ErrWeakPassword.Error()
		a.emitAudit(ctx, event)
		return &WeakPasswordError{Violations: res.Violations}
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := a.store.Update(ctx, operatorID, OperatorUpdate{
		PasswordHash:      &hash,
		PasswordChangedAt: &now,
		ClearRefreshToken: true,
	}); err != nil {
		return err
	}
	if _, err := a.store.IncrementTokenVersion(ctx, operatorID); err != nil {
		return err
	}

	a.metricInc(MetricPasswordChangeSuccess)
	event.Success = true
	a.emitAudit(ctx, event)
	return nil
}

// VerifyPassword checks a password against the operator's current hash
// without any lockout or rate-limit bookkeeping. Step-up confirmation
// flows use it before destructive actions.
func (a *Authority) VerifyPassword(ctx context.Context, operatorID, candidate string) error {
	if a == nil || a.store == nil {
		return ErrAuthorityNotReady
	}

	event := newAuditEvent("verify_password")
	event.OperatorID = operatorID

	op, err := a.store.FindByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if !a.hasher.Verify(candidate, op.PasswordHash) {
		event.Error = ErrInvalidCredentials.Error()
		a.emitAudit(ctx, event)
		return ErrInvalidCredentials
	}

	event.Success = true
	a.emitAudit(ctx, event)
	return nil
}
