package adminauth

import (
	"testing"
	"time"
)

func TestValidateFillsDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Token.AccessTTL != 2*time.Hour {
		t.Fatalf("access TTL default wrong: %v", cfg.Token.AccessTTL)
	}
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh TTL default wrong: %v", cfg.Token.RefreshTTL)
	}
	if cfg.Password.Cost != 12 {
		t.Fatalf("password cost default wrong: %d", cfg.Password.Cost)
	}
	if cfg.Lockout.Threshold != 5 || cfg.Lockout.Window != 30*time.Minute {
		t.Fatalf("lockout defaults wrong: %+v", cfg.Lockout)
	}
	if cfg.TOTP.Digits != 6 || cfg.TOTP.Period != 30 || cfg.TOTP.Skew != 2 {
		t.Fatalf("totp defaults wrong: %+v", cfg.TOTP)
	}
	if cfg.TOTP.RecoveryCodeCount != 10 || cfg.TOTP.RecoveryCodeLength != 8 {
		t.Fatalf("recovery code defaults wrong: %+v", cfg.TOTP)
	}
	if cfg.RateLimit.MaxAttempts != 5 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("rate limit defaults wrong: %+v", cfg.RateLimit)
	}
}

func TestValidateRejectsInvertedTTLs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.AccessTTL = 10 * time.Hour
	cfg.Token.RefreshTTL = time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when refresh TTL <= access TTL")
	}
}

func TestValidateRejectsBadTOTPDigits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TOTP.Digits = 4
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for 4-digit codes")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ADMINAUTH_SIGNING_SECRET", "env-secret")
	t.Setenv("ADMINAUTH_ACCESS_TTL", "1h")
	t.Setenv("ADMINAUTH_REFRESH_TTL", "48h")
	t.Setenv("ADMINAUTH_LOCKOUT_THRESHOLD", "3")
	t.Setenv("ADMINAUTH_RATE_LIMIT_ENABLED", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if string(cfg.Token.PrivateKey) != "env-secret" {
		t.Fatal("signing secret not loaded")
	}
	if cfg.Token.AccessTTL != time.Hour || cfg.Token.RefreshTTL != 48*time.Hour {
		t.Fatalf("token TTLs not loaded: %+v", cfg.Token)
	}
	if cfg.Lockout.Threshold != 3 {
		t.Fatalf("lockout threshold not loaded: %d", cfg.Lockout.Threshold)
	}
	if cfg.RateLimit.Enabled {
		t.Fatal("rate limiting should be off")
	}
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("ADMINAUTH_SIGNING_SECRET", "")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error without signing secret")
	}
}
