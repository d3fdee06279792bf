package adminauth

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// Recovery codes avoid characters that read ambiguously when written
// down (0/O, 1/I/l).
const recoveryCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// EnableSecondFactor starts TOTP enrollment: it generates a secret and
// recovery codes and stores them in a pending state. Enforcement only
// begins after ConfirmSecondFactor proves the authenticator app was set
// up. The returned Enrollment is the only time the plaintext recovery
// codes exist.
func (a *Authority) EnableSecondFactor(ctx context.Context, operatorID string) (*Enrollment, error) {
	if a == nil || a.store == nil {
		return nil, ErrAuthorityNotReady
	}

	op, err := a.store.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if op.Status != StatusActive {
		return nil, ErrAccountDisabled
	}
	if op.TwoFactorEnabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}

	secret, err := a.totp.GenerateSecret()
	if err != nil {
		return nil, err
	}

	codes, err := generateRecoveryCodes(a.config.TOTP.RecoveryCodeCount, a.config.TOTP.RecoveryCodeLength)
	if err != nil {
		return nil, err
	}
	hashes, err := a.hasher.HashCodes(codes)
	if err != nil {
		return nil, err
	}

	if err := a.store.Update(ctx, operatorID, OperatorUpdate{
		TwoFactorSecret:    &secret,
		RecoveryCodeHashes: hashes,
	}); err != nil {
		return nil, err
	}

	event := newAuditEvent("enable_2fa")
	event.OperatorID = operatorID
	event.Success = true
	a.emitAudit(ctx, event)

	return &Enrollment{
		Secret:          secret,
		ProvisioningURI: a.totp.ProvisionURI(secret, op.Email),
		RecoveryCodes:   codes,
	}, nil
}

// ConfirmSecondFactor completes enrollment by verifying one code from
// the authenticator app against the pending secret. Only then does login
// start demanding a second factor.
func (a *Authority) ConfirmSecondFactor(ctx context.Context, operatorID, code string) error {
	if a == nil || a.store == nil {
		return ErrAuthorityNotReady
	}

	event := newAuditEvent("confirm_2fa")
	event.OperatorID = operatorID

	op, err := a.store.FindByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if op.TwoFactorEnabled {
		return ErrTwoFactorAlreadyEnabled
	}
	if op.TwoFactorSecret == "" {
		return ErrEnrollmentNotStarted
	}

	ok, err := a.totp.VerifyCode(op.TwoFactorSecret, code, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		event.Error = ErrInvalidSecondFactorCode.Error()
		a.emitAudit(ctx, event)
		return ErrInvalidSecondFactorCode
	}

	enabled := true
	if err := a.store.Update(ctx, operatorID, OperatorUpdate{
		TwoFactorEnabled: &enabled,
	}); err != nil {
		return err
	}

	a.metricInc(MetricTwoFactorEnabled)
	event.Success = true
	a.emitAudit(ctx, event)
	return nil
}

// DisableSecondFactor turns 2FA off after re-verifying the password. The
// secret and any remaining recovery codes are discarded; this also
// abandons a pending (unconfirmed) enrollment.
func (a *Authority) DisableSecondFactor(ctx context.Context, operatorID, currentPassword string) error {
	if a == nil || a.store == nil {
		return ErrAuthorityNotReady
	}

	event := newAuditEvent("disable_2fa")
	event.OperatorID = operatorID

	op, err := a.store.FindByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if !a.hasher.Verify(currentPassword, op.PasswordHash) {
		event.Error = ErrInvalidCredentials.Error()
		a.emitAudit(ctx, event)
		return ErrInvalidCredentials
	}

	disabled := false
	if err := a.store.Update(ctx, operatorID, OperatorUpdate{
		TwoFactorEnabled:        &disabled,
		ClearTwoFactorSecret:    true,
		ClearRecoveryCodeHashes: true,
	}); err != nil {
		return err
	}

	a.metricInc(MetricTwoFactorDisabled)
	event.Success = true
	a.emitAudit(ctx, event)
	return nil
}

func generateRecoveryCodes(count, length int) ([]string, error) {
	codes := make([]string, count)
	charsetLen := big.NewInt(int64(len(recoveryCodeCharset)))
	for i := range codes {
		buf := make([]byte, length)
		for j := range buf {
			n, err := rand.Int(rand.Reader, charsetLen)
			if err != nil {
				return nil, err
			}
			buf[j] = recoveryCodeCharset[n.Int64()]
		}
		codes[i] = string(buf)
	}
	return codes, nil
}
