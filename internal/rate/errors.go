package rate

import "errors"

var (
	// ErrLimited indicates the address exhausted its request budget.
	ErrLimited = errors.New("rate limited")
	// ErrBackendUnavailable indicates the Redis backend is unreachable.
	ErrBackendUnavailable = errors.New("rate limit backend unavailable")
)
