package adminauth

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ieclub/adminauth/jwt"
	"github.com/ieclub/adminauth/password"
)

// Config carries every tunable of the authority. Zero values select the
// documented defaults; Validate fills them in during Build.
type Config struct {
	Token     TokenConfig
	Password  PasswordConfig
	TOTP      TOTPConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// TokenConfig configures the token authority.
type TokenConfig struct {
	// AccessTTL bounds access token lifetime. Default 2h.
	AccessTTL time.Duration
	// RefreshTTL bounds refresh token lifetime. Default 168h (7 days).
	RefreshTTL time.Duration
	// SigningMethod is "hs256" (default) or "ed25519".
	SigningMethod string
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig configures the secret hasher.
type PasswordConfig struct {
	// Cost is the bcrypt work factor. Default 12.
	Cost int
}

// TOTPConfig configures the second-factor engine.
type TOTPConfig struct {
	// Issuer labels provisioning URIs in authenticator apps.
	Issuer string
	// Digits per code. Default 6.
	Digits int
	// Period is the time step in seconds. Default 30.
	Period int
	// Skew is the tolerated clock drift in time steps either side of now.
	// Default 2 (about ±60s), trading replay exposure for usability.
	Skew int
	// RecoveryCodeCount codes are issued per enrollment. Default 10.
	RecoveryCodeCount int
	// RecoveryCodeLength characters per code. Default 8.
	RecoveryCodeLength int
}

// LockoutConfig configures the per-operator lockout guard.
type LockoutConfig struct {
	// Threshold failed logins trigger a lock. Default 5.
	Threshold int
	// Window is the lock duration. Default 30m.
	Window time.Duration
}

// RateLimitConfig configures the per-address login limiter. The limiter
// only runs when a Redis client is supplied at build time.
type RateLimitConfig struct {
	Enabled bool
	// MaxAttempts per window per client address. Default 5.
	MaxAttempts int
	// Window length. Default 15m.
	Window time.Duration
	// Message is the human-readable rejection text.
	Message string
}

// AuditConfig configures the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled bool
	// BufferSize bounds the in-flight event queue. Default 256.
	BufferSize int
	// DropIfFull drops events instead of blocking when the queue is full.
	DropIfFull bool
}

// MetricsConfig toggles the in-process counter registry.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the production defaults: 2h/7d token lifetimes,
// bcrypt cost 12, 6-digit TOTP with ±2-step skew, lockout after 5
// failures for 30 minutes, and 5 login requests per address per 15
// minutes.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     2 * time.Hour,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: string(jwt.MethodHS256),
			Issuer:        "ieclub-admin",
		},
		Password: PasswordConfig{Cost: password.DefaultCost},
		TOTP: TOTPConfig{
			Issuer:             "IEclub Admin",
			Digits:             6,
			Period:             30,
			Skew:               2,
			RecoveryCodeCount:  10,
			RecoveryCodeLength: 8,
		},
		Lockout: LockoutConfig{
			Threshold: 5,
			Window:    30 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			MaxAttempts: 5,
			Window:      15 * time.Minute,
			Message:     "too many login attempts, try again later",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate fills zero values with defaults and rejects inconsistent
// settings. It is called by Build; standalone use is for callers that
// assemble Config by hand.
func (c *Config) Validate() error {
	def := DefaultConfig()

	if c.Token.AccessTTL == 0 {
		c.Token.AccessTTL = def.Token.AccessTTL
	}
	if c.Token.RefreshTTL == 0 {
		c.Token.RefreshTTL = def.Token.RefreshTTL
	}
	if c.Token.SigningMethod == "" {
		c.Token.SigningMethod = def.Token.SigningMethod
	}
	if c.Token.Issuer == "" {
		c.Token.Issuer = def.Token.Issuer
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}

	if c.Password.Cost == 0 {
		c.Password.Cost = def.Password.Cost
	}

	if c.TOTP.Issuer == "" {
		c.TOTP.Issuer = def.TOTP.Issuer
	}
	if c.TOTP.Digits == 0 {
		c.TOTP.Digits = def.TOTP.Digits
	}
	if c.TOTP.Period == 0 {
		c.TOTP.Period = def.TOTP.Period
	}
	if c.TOTP.Skew == 0 {
		c.TOTP.Skew = def.TOTP.Skew
	}
	if c.TOTP.RecoveryCodeCount == 0 {
		c.TOTP.RecoveryCodeCount = def.TOTP.RecoveryCodeCount
	}
	if c.TOTP.RecoveryCodeLength == 0 {
		c.TOTP.RecoveryCodeLength = def.TOTP.RecoveryCodeLength
	}
	if c.TOTP.Digits < 6 || c.TOTP.Digits > 8 {
		return errors.New("totp digits must be between 6 and 8")
	}
	if c.TOTP.Skew < 0 || c.TOTP.Skew > 4 {
		return errors.New("totp skew must be between 0 and 4 steps")
	}

	if c.Lockout.Threshold == 0 {
		c.Lockout.Threshold = def.Lockout.Threshold
	}
	if c.Lockout.Window == 0 {
		c.Lockout.Window = def.Lockout.Window
	}
	if c.Lockout.Threshold < 0 || c.Lockout.Window < 0 {
		return errors.New("lockout threshold and window must be positive")
	}

	if c.RateLimit.MaxAttempts == 0 {
		c.RateLimit.MaxAttempts = def.RateLimit.MaxAttempts
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = def.RateLimit.Window
	}
	if c.RateLimit.Message == "" {
		c.RateLimit.Message = def.RateLimit.Message
	}

	if c.Audit.BufferSize == 0 {
		c.Audit.BufferSize = def.Audit.BufferSize
	}

	return nil
}

type envSpec struct {
	AccessTTL     time.Duration `envconfig:"ACCESS_TTL" default:"2h"`
	RefreshTTL    time.Duration `envconfig:"REFRESH_TTL" default:"168h"`
	SigningMethod string        `envconfig:"SIGNING_METHOD" default:"hs256"`
	SigningSecret string        `envconfig:"SIGNING_SECRET" required:"true"`
	TokenIssuer   string        `envconfig:"TOKEN_ISSUER" default:"ieclub-admin"`

	PasswordCost int `envconfig:"PASSWORD_COST" default:"12"`

	TOTPIssuer string `envconfig:"TOTP_ISSUER" default:"IEclub Admin"`

	LockoutThreshold int           `envconfig:"LOCKOUT_THRESHOLD" default:"5"`
	LockoutWindow    time.Duration `envconfig:"LOCKOUT_WINDOW" default:"30m"`

	RateLimitEnabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitAttempts int           `envconfig:"RATE_LIMIT_ATTEMPTS" default:"5"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`

	AuditEnabled bool `envconfig:"AUDIT_ENABLED" default:"true"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// FromEnv reads configuration from ADMINAUTH_-prefixed environment
// variables. ADMINAUTH_SIGNING_SECRET is required.
func FromEnv() (Config, error) {
	var spec envSpec
	if err := envconfig.Process("adminauth", &spec); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	cfg.Token.AccessTTL = spec.AccessTTL
	cfg.Token.RefreshTTL = spec.RefreshTTL
	cfg.Token.SigningMethod = spec.SigningMethod
	cfg.Token.PrivateKey = []byte(spec.SigningSecret)
	cfg.Token.Issuer = spec.TokenIssuer
	cfg.Password.Cost = spec.PasswordCost
	cfg.TOTP.Issuer = spec.TOTPIssuer
	cfg.Lockout.Threshold = spec.LockoutThreshold
	cfg.Lockout.Window = spec.LockoutWindow
	cfg.RateLimit.Enabled = spec.RateLimitEnabled
	cfg.RateLimit.MaxAttempts = spec.RateLimitAttempts
	cfg.RateLimit.Window = spec.RateLimitWindow
	cfg.Audit.Enabled = spec.AuditEnabled
	cfg.Metrics.Enabled = spec.MetricsEnabled

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
