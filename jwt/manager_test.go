package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		AccessTTL:     2 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "adminauth-test",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	base := Config{
		AccessTTL:     time.Hour,
		RefreshTTL:    2 * time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("secret"),
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero access ttl", func(c *Config) { c.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *Config) { c.RefreshTTL = 0 }},
		{"refresh not above access", func(c *Config) { c.RefreshTTL = c.AccessTTL }},
		{"negative leeway", func(c *Config) { c.Leeway = -time.Second }},
		{"excessive leeway", func(c *Config) { c.Leeway = 5 * time.Minute }},
		{"missing hs256 secret", func(c *Config) { c.PrivateKey = nil }},
		{"unknown method", func(c *Config) { c.SigningMethod = "rsa" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if _, err := NewManager(cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := newTestManager(t)

	access, err := m.IssueAccess("op-1", 3)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	claims, err := m.ParseAccess(access)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if claims.OperatorID != "op-1" || claims.TokenVersion != 3 || claims.Use != UseAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
}

func TestClassDiscriminator(t *testing.T) {
	m := newTestManager(t)

	access, err := m.IssueAccess("op-1", 1)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	refresh, err := m.IssueRefresh("op-1", 1)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	if _, err := m.ParseRefresh(access); !errors.Is(err, ErrWrongClass) {
		t.Fatalf("expected ErrWrongClass for access-as-refresh, got %v", err)
	}
	if _, err := m.ParseAccess(refresh); !errors.Is(err, ErrWrongClass) {
		t.Fatalf("expected ErrWrongClass for refresh-as-access, got %v", err)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)

	access, err := m.IssueAccess("op-1", 1)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	tampered := access[:len(access)-2] + "xx"
	if _, err := m.ParseAccess(tampered); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	m := newTestManager(t)
	other, err := NewManager(Config{
		AccessTTL:     2 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "someone-else",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	tok, err := other.IssueAccess("op-1", 1)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if _, err := m.ParseAccess(tok); err == nil {
		t.Fatal("expected issuer mismatch failure")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	m, err := NewManager(Config{
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	tok, err := m.IssueRefresh("op-9", 7)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}
	claims, err := m.ParseRefresh(tok)
	if err != nil {
		t.Fatalf("ParseRefresh failed: %v", err)
	}
	if claims.OperatorID != "op-9" || claims.TokenVersion != 7 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
