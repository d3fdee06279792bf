// Package password provides one-way hashing and verification for operator
// passwords and recovery codes, plus password strength validation.
//
// Hashing uses bcrypt with a configurable work factor. The default cost of
// 12 keeps a single verification above the ~100ms range on commodity
// hardware, which is the intended brute-force deterrent.
package password

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used when none is configured.
	DefaultCost = 12

	// minSecretLength is the floor enforced by ValidateStrength.
	minSecretLength = 8
)

// Config tunes the hasher work factor.
type Config struct {
	// Cost is the bcrypt work factor. Zero selects DefaultCost.
	Cost int
}

// Hasher performs slow salted hashing of passwords and recovery codes.
// A Hasher is immutable after construction and safe for concurrent use.
type Hasher struct {
	cost int
}

// New validates the configuration and returns a Hasher.
func New(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("password cost out of range")
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns the salted one-way hash of the secret.
func (h *Hasher) Hash(secret string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether the secret matches the stored hash. Malformed
// hashes verify as false rather than erroring; a corrupt stored hash must
// behave exactly like a wrong password.
func (h *Hasher) Verify(secret, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(secret)) == nil
}

// HashCodes hashes each recovery code individually, preserving order.
func (h *Hasher) HashCodes(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		hashed, err := h.Hash(code)
		if err != nil {
			return nil, err
		}
		out = append(out, hashed)
	}
	return out, nil
}

// ConsumeCode scans the hashed recovery codes for one matching the
// presented code. On a match it returns true together with the list minus
// the matched entry; the caller must persist the shrunken list atomically
// to give codes their single-use semantics. Without a match the original
// list is returned unchanged.
func (h *Hasher) ConsumeCode(code string, hashes []string) (bool, []string) {
	for i, encoded := range hashes {
		if h.Verify(code, encoded) {
			remaining := make([]string, 0, len(hashes)-1)
			remaining = append(remaining, hashes[:i]...)
			remaining = append(remaining, hashes[i+1:]...)
			return true, remaining
		}
	}
	return false, hashes
}

// StrengthResult reports the outcome of a strength validation with one
// entry per violated rule.
type StrengthResult struct {
	Valid      bool
	Violations []string
}

// ValidateStrength checks a candidate password against the platform rules:
// minimum length 8 with at least one lowercase letter, one uppercase
// letter, one digit and one symbol.
func ValidateStrength(candidate string) StrengthResult {
	var violations []string

	if len(candidate) < minSecretLength {
		violations = append(violations, "password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range candidate {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsSpace(r):
			hasSymbol = true
		}
	}

	if !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain a digit")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain a symbol")
	}

	return StrengthResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
