package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
)

// AuthenticateToken verifies an access token and loads the operator it
// belongs to. A token signed before the operator's current token version
// is rejected, which is how logout and password changes revoke
// outstanding access tokens without server-side token state.
func (a *Authority) AuthenticateToken(ctx context.Context, accessToken string) (*Operator, error) {
	if a == nil || a.store == nil {
		return nil, ErrAuthorityNotReady
	}

	claims, err := a.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	op, err := a.store.FindByID(ctx, claims.OperatorID)
	if err != nil {
		if errors.Is(err, ErrOperatorNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if claims.TokenVersion != op.TokenVersion {
		return nil, ErrInvalidToken
	}
	if op.Status != StatusActive {
		return nil, ErrAccountDisabled
	}

	return op, nil
}

// Refresh rotates a refresh token: the presented token must match the
// single stored one, and a fresh pair replaces it. Presenting an already
// replaced refresh token is treated as theft evidence and audited.
func (a *Authority) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if a == nil || a.store == nil {
		return nil, ErrAuthorityNotReady
	}

	event := newAuditEvent("refresh")

	claims, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		a.metricInc(MetricRefreshFailure)
		event.Error = ErrInvalidToken.Error()
		a.emitAudit(ctx, event)
		return nil, ErrInvalidToken
	}

	op, err := a.store.FindByID(ctx, claims.OperatorID)
	if err != nil {
		if errors.Is(err, ErrOperatorNotFound) {
			a.metricInc(MetricRefreshFailure)
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	event.OperatorID = op.ID

	if subtle.ConstantTimeCompare([]byte(op.RefreshToken), []byte(refreshToken)) != 1 {
		// A structurally valid but superseded token means either a very
		// stale client or a stolen token being replayed.
		a.metricInc(MetricRefreshReuseDetected)
		a.metricInc(MetricRefreshFailure)
		event.Error = "refresh token reuse detected"
		a.emitAudit(ctx, event)
		return nil, ErrInvalidToken
	}

	if claims.TokenVersion != op.TokenVersion {
		a.metricInc(MetricRefreshFailure)
		event.Error = ErrInvalidToken.Error()
		a.emitAudit(ctx, event)
		return nil, ErrInvalidToken
	}
	if op.Status != StatusActive {
		a.metricInc(MetricRefreshFailure)
		event.Error = ErrAccountDisabled.Error()
		a.emitAudit(ctx, event)
		return nil, ErrAccountDisabled
	}

	tokens, err := a.issuePair(op)
	if err != nil {
		return nil, err
	}

	if err := a.store.Update(ctx, op.ID, OperatorUpdate{
		RefreshToken: &tokens.RefreshToken,
	}); err != nil {
		return nil, err
	}

	a.metricInc(MetricRefreshSuccess)
	event.Success = true
	a.emitAudit(ctx, event)

	return &tokens, nil
}

// Logout revokes every outstanding token for the operator by bumping the
// token version and dropping the stored refresh token.
func (a *Authority) Logout(ctx context.Context, operatorID string) error {
	if err := a.revokeAll(ctx, operatorID, "logout"); err != nil {
		return err
	}
	a.metricInc(MetricLogout)
	return nil
}

// RevokeAll is the administrative form of Logout, for use when an
// account is suspected compromised.
func (a *Authority) RevokeAll(ctx context.Context, operatorID string) error {
	if err := a.revokeAll(ctx, operatorID, "revoke_all"); err != nil {
		return err
	}
	a.metricInc(MetricTokensRevoked)
	return nil
}

func (a *Authority) revokeAll(ctx context.Context, operatorID, action string) error {
	if a == nil || a.store == nil {
		return ErrAuthorityNotReady
	}

	event := newAuditEvent(action)
	event.OperatorID = operatorID

	if _, err := a.store.IncrementTokenVersion(ctx, operatorID); err != nil {
		event.Error = err.Error()
		a.emitAudit(ctx, event)
		return err
	}
	if err := a.store.Update(ctx, operatorID, OperatorUpdate{ClearRefreshToken: true}); err != nil {
		event.Error = err.Error()
		a.emitAudit(ctx, event)
		return err
	}

	event.Success = true
	a.emitAudit(ctx, event)
	return nil
}
