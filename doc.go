// Package adminauth is the administrator authentication and authorization
// authority of the IEclub platform: operator credential verification,
// TOTP second-factor enforcement with single-use recovery codes, bearer
// token issuance and bulk invalidation via a per-operator token version,
// brute-force lockout, per-address login rate limiting, and the
// role/permission model that gates every privileged operation.
//
// The authority persists nothing itself. Callers supply an OperatorStore
// for operator records (see pgstore for a PostgreSQL adapter), optionally
// a Redis client for the login rate limiter, and an AuditSink that
// receives one event per security decision.
//
// Construction follows the builder in builder.go:
//
//	authority, err := adminauth.New().
//		WithConfig(cfg).
//		WithStore(store).
//		WithRedis(redisClient).
//		WithAuditSink(sink).
//		Build()
package adminauth
