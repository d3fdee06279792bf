package adminauth

import (
	"context"
	"time"

	"github.com/ieclub/adminauth/permission"
)

// OperatorStatus represents the lifecycle state of an operator account.
// Operators are never hard-deleted; they transition to disabled instead.
type OperatorStatus string

const (
	// StatusActive marks an operator that may authenticate.
	StatusActive OperatorStatus = "active"
	// StatusDisabled marks a deactivated operator; every flow rejects it.
	StatusDisabled OperatorStatus = "disabled"
)

// Operator is the administrative identity record managed by the backing
// store. The authority mutates it exclusively through OperatorStore.
type Operator struct {
	ID       string
	Username string
	Email    string
	RealName string

	PasswordHash      string
	PasswordChangedAt time.Time

	Role permission.Role
	// Permissions is the denormalized cache of the role's permissions,
	// stored per operator so overrides remain possible. When empty, the
	// role's catalog set applies.
	Permissions []permission.Permission

	Status OperatorStatus

	FailedLogins int
	LockedUntil  *time.Time

	// TwoFactorSecret is non-empty while 2FA is enabled, and also during a
	// pending (unconfirmed) enrollment. A pending secret never triggers
	// second-factor enforcement at login.
	TwoFactorEnabled   bool
	TwoFactorSecret    string
	RecoveryCodeHashes []string

	// RefreshToken is the single currently valid refresh token, overwritten
	// on each login/refresh and cleared on logout.
	RefreshToken string
	TokenVersion int64

	LastLoginAt   *time.Time
	LastLoginAddr string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePermissions returns the operator's permission cache, falling
// back to the role's catalog set when the cache is empty.
func (o *Operator) EffectivePermissions() []permission.Permission {
	if len(o.Permissions) > 0 {
		return o.Permissions
	}
	return permission.ForRole(o.Role)
}

// Profile is the caller-facing projection of an Operator. It never
// carries credential material.
type Profile struct {
	ID               string                  `json:"id"`
	Username         string                  `json:"username"`
	Email            string                  `json:"email"`
	RealName         string                  `json:"realName,omitempty"`
	Role             permission.Role         `json:"role"`
	Permissions      []permission.Permission `json:"permissions"`
	TwoFactorEnabled bool                    `json:"twoFactorEnabled"`
	LastLoginAt      *time.Time              `json:"lastLoginAt,omitempty"`
}

// Profile builds the caller-facing projection of the operator.
func (o *Operator) Profile() *Profile {
	return &Profile{
		ID:               o.ID,
		Username:         o.Username,
		Email:            o.Email,
		RealName:         o.RealName,
		Role:             o.Role,
		Permissions:      o.EffectivePermissions(),
		TwoFactorEnabled: o.TwoFactorEnabled,
		LastLoginAt:      o.LastLoginAt,
	}
}

// OperatorUpdate is a partial update applied to an operator record. Nil
// pointer fields are left untouched; Clear flags null out nullable
// columns, which a nil pointer cannot express.
type OperatorUpdate struct {
	PasswordHash      *string
	PasswordChangedAt *time.Time

	FailedLogins     *int
	LockedUntil      *time.Time
	ClearLockedUntil bool

	TwoFactorEnabled     *bool
	TwoFactorSecret      *string
	ClearTwoFactorSecret bool

	RecoveryCodeHashes      []string
	ClearRecoveryCodeHashes bool

	RefreshToken      *string
	ClearRefreshToken bool

	LastLoginAt   *time.Time
	LastLoginAddr *string

	Status *OperatorStatus
}

// OperatorStore is the persistence contract the authority consumes. The
// increment operations must be atomic at the store level: two concurrent
// failed logins must observe distinct counter values, and token version
// bumps must never be lost to a read-modify-write race.
type OperatorStore interface {
	FindByEmail(ctx context.Context, email string) (*Operator, error)
	FindByID(ctx context.Context, id string) (*Operator, error)
	Update(ctx context.Context, id string, upd OperatorUpdate) error
	// IncrementFailedLogins atomically adds one to the failed-login counter
	// and returns the new value.
	IncrementFailedLogins(ctx context.Context, id string) (int, error)
	// IncrementTokenVersion atomically adds one to the token version and
	// returns the new value.
	IncrementTokenVersion(ctx context.Context, id string) (int64, error)
}

// TokenPair is an access/refresh token pair issued on successful login or
// refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the outcome of a successful (or continuing) login
// attempt. When SecondFactorRequired is set, no tokens were issued and
// the caller must resubmit with a TOTP or recovery code; this is a
// continuation, not a failure.
type LoginResult struct {
	SecondFactorRequired bool
	Operator             *Profile
	Tokens               TokenPair
}

// Enrollment is returned once by EnableSecondFactor. The plaintext
// recovery codes appear here and nowhere else; the authority stores only
// their hashes.
type Enrollment struct {
	Secret          string
	ProvisioningURI string
	RecoveryCodes   []string
}
