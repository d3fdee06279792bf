package adminauth

import (
	"context"

	"github.com/ieclub/adminauth/internal/rate"
	"github.com/ieclub/adminauth/jwt"
	"github.com/ieclub/adminauth/password"
)

// Authority is the admin authentication engine. Construct it with the
// Builder; a zero Authority is not usable. All methods are safe for
// concurrent use.
type Authority struct {
	config  Config
	store   OperatorStore
	hasher  *password.Hasher
	totp    *totpManager
	tokens  *jwt.Manager
	lockout *lockoutGuard
	limiter *rate.Limiter
	audit   *auditDispatcher
	metrics *Metrics
}

// Close flushes and stops the audit dispatcher. The Authority must not
// be used after Close.
func (a *Authority) Close() {
	if a == nil {
		return
	}
	if a.audit != nil {
		a.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (a *Authority) AuditDropped() uint64 {
	if a == nil || a.audit == nil {
		return 0
	}
	return a.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (a *Authority) MetricsSnapshot() MetricsSnapshot {
	if a == nil || a.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return a.metrics.Snapshot()
}

func (a *Authority) metricInc(id MetricID) {
	if a == nil || a.metrics == nil {
		return
	}
	a.metrics.Inc(id)
}

func (a *Authority) emitAudit(ctx context.Context, event AuditEvent) {
	if a == nil || a.audit == nil {
		return
	}
	a.audit.Emit(ctx, event)
}
