// Package jwt issues and verifies the authority's access/refresh token
// pairs. Tokens embed the operator id and the operator's token version at
// issuance; a use-class discriminator prevents an access token from being
// replayed as a refresh token.
package jwt

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the signature algorithm for issued tokens.
type SigningMethod string

const (
	// MethodHS256 signs with a shared symmetric secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// Token use discriminators.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// ErrWrongClass indicates a structurally valid token of the wrong use
// class (access presented as refresh, or the reverse).
var ErrWrongClass = errors.New("token class mismatch")

// Config holds signing configuration for the token Manager.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// Claims is the payload embedded in every issued token: the operator
// identity, the operator's token version at issuance, and the use class.
type Claims struct {
	OperatorID   string `json:"aid"`
	TokenVersion int64  `json:"ver"`
	Use          string `json:"use"`
	jwt.RegisteredClaims
}

// Manager issues and parses access/refresh token pairs. Instances are
// immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("refresh TTL must exceed access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires a signing secret")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// IssueAccess signs a short-lived access token for the operator.
func (m *Manager) IssueAccess(operatorID string, tokenVersion int64) (string, error) {
	return m.issue(operatorID, tokenVersion, UseAccess, m.config.AccessTTL)
}

// IssueRefresh signs a long-lived refresh token for the operator.
func (m *Manager) IssueRefresh(operatorID string, tokenVersion int64) (string, error) {
	return m.issue(operatorID, tokenVersion, UseRefresh, m.config.RefreshTTL)
}

func (m *Manager) issue(operatorID string, tokenVersion int64, use string, ttl time.Duration) (string, error) {
	if operatorID == "" {
		return "", errors.New("operator id required")
	}

	now := time.Now()
	claims := Claims{
		OperatorID:   operatorID,
		TokenVersion: tokenVersion,
		Use:          use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   operatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(m.method(), claims)
	key, err := m.signKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(key)
}

// ParseAccess verifies signature and expiry and rejects refresh-class tokens.
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, UseAccess)
}

// ParseRefresh verifies signature and expiry and rejects access-class tokens.
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, UseRefresh)
}

func (m *Manager) parse(tokenStr, wantUse string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.verifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.OperatorID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Use != wantUse {
		return nil, ErrWrongClass
	}

	return claims, nil
}

func (m *Manager) method() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (m *Manager) signKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(m.config.PrivateKey)
	}
}

func (m *Manager) verifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPublicKey(m.config.PublicKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
