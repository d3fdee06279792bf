package adminauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/ieclub/adminauth/internal/rate"
	"github.com/ieclub/adminauth/jwt"
	"github.com/ieclub/adminauth/password"
)

// Builder assembles an Authority. A store is mandatory; Redis is only
// required when per-address rate limiting is enabled.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store     OperatorStore
	auditSink AuditSink

	built bool
}

// New starts a builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

func (b *Builder) WithStore(store OperatorStore) *Builder {
	b.store = store
	return b
}

func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates configuration and wires the Authority. The builder is
// single use.
func (b *Builder) Build() (*Authority, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("operator store required")
	}
	if cfg.RateLimit.Enabled && b.redis == nil {
		return nil, errors.New("rate limiting requires a redis client")
	}

	hasher, err := password.New(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		SigningMethod: jwt.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	a := &Authority{
		config:  cfg,
		store:   b.store,
		hasher:  hasher,
		totp:    newTOTPManager(cfg.TOTP),
		tokens:  tokens,
		lockout: newLockoutGuard(b.store, cfg.Lockout),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	if cfg.RateLimit.Enabled {
		a.limiter = rate.New(b.redis, rate.Config{
			MaxAttempts: cfg.RateLimit.MaxAttempts,
			Window:      cfg.RateLimit.Window,
		})
	}

	b.built = true

	return a, nil
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
