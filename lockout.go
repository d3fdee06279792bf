package adminauth

import (
	"context"
	"time"
)

// lockoutGuard tracks consecutive failed logins on the operator record
// itself and drives the temporary lock. Counting lives in the store so
// it survives restarts and stays correct under concurrent attempts.
type lockoutGuard struct {
	store     OperatorStore
	threshold int
	window    time.Duration
}

func newLockoutGuard(store OperatorStore, cfg LockoutConfig) *lockoutGuard {
	return &lockoutGuard{
		store:     store,
		threshold: cfg.Threshold,
		window:    cfg.Window,
	}
}

// check rejects the attempt while a lock is in effect. An expired lock is
// lazily cleared here rather than by a background sweeper, so the counter
// starts fresh on the first attempt after expiry.
func (g *lockoutGuard) check(ctx context.Context, op *Operator, now time.Time) error {
	if op.LockedUntil == nil {
		return nil
	}

	if now.Before(*op.LockedUntil) {
		return &LockedError{Remaining: op.LockedUntil.Sub(now)}
	}

	zero := 0
	err := g.store.Update(ctx, op.ID, OperatorUpdate{
		FailedLogins:     &zero,
		ClearLockedUntil: true,
	})
	if err != nil {
		return err
	}
	op.FailedLogins = 0
	op.LockedUntil = nil
	return nil
}

// recordFailure bumps the counter atomically and locks the account when
// the threshold is reached. It returns the attempts remaining before
// lockout and whether this failure triggered the lock.
func (g *lockoutGuard) recordFailure(ctx context.Context, op *Operator, now time.Time) (remaining int, locked bool, err error) {
	count, err := g.store.IncrementFailedLogins(ctx, op.ID)
	if err != nil {
		return 0, false, err
	}

	if count < g.threshold {
		return g.threshold - count, false, nil
	}

	until := now.Add(g.window)
	err = g.store.Update(ctx, op.ID, OperatorUpdate{LockedUntil: &until})
	if err != nil {
		return 0, false, err
	}
	return 0, true, nil
}
