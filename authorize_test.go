package adminauth

import (
	"errors"
	"testing"

	"github.com/ieclub/adminauth/permission"
)

func activeOperator(role permission.Role) *Operator {
	return &Operator{ID: "op-x", Role: role, Status: StatusActive}
}

func TestAuthorizeAllPermissions(t *testing.T) {
	a, _ := newTestAuthority(t, testConfig())
	op := activeOperator(permission.RoleContentModerator)

	if err := a.Authorize(op, permission.PostDelete, permission.CommentDelete); err != nil {
		t.Fatalf("moderator should hold both: %v", err)
	}

	err := a.Authorize(op, permission.PostDelete, permission.SystemConfig)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if permErr.Missing != permission.SystemConfig {
		t.Fatalf("expected missing system:config, got %s", permErr.Missing)
	}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatal("PermissionError must match the sentinel")
	}
}

func TestAuthorizeAny(t *testing.T) {
	a, _ := newTestAuthority(t, testConfig())
	op := activeOperator(permission.RoleDataAnalyst)

	if err := a.AuthorizeAny(op, permission.SystemConfig, permission.StatsView); err != nil {
		t.Fatalf("analyst holds stats:view: %v", err)
	}
	if err := a.AuthorizeAny(op, permission.SystemConfig, permission.UserBan); err == nil {
		t.Fatal("analyst holds neither, expected denial")
	}
}

func TestAuthorizeDeniesDisabled(t *testing.T) {
	a, _ := newTestAuthority(t, testConfig())
	op := activeOperator(permission.RoleSuperAdmin)
	op.Status = StatusDisabled

	if err := a.Authorize(op, permission.UserRead); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected denial for disabled operator, got %v", err)
	}
}

func TestAuthorizeUsesPermissionOverrides(t *testing.T) {
	a, _ := newTestAuthority(t, testConfig())
	op := activeOperator(permission.RoleDataAnalyst)
	op.Permissions = []permission.Permission{permission.SystemConfig}

	// The denormalized cache wins over the role catalog.
	if err := a.Authorize(op, permission.SystemConfig); err != nil {
		t.Fatalf("override grant should apply: %v", err)
	}
	if err := a.Authorize(op, permission.StatsView); err == nil {
		t.Fatal("role grant should be shadowed by the override set")
	}
}

func TestAuthorizeAdminister(t *testing.T) {
	a, _ := newTestAuthority(t, testConfig())

	super := activeOperator(permission.RoleSuperAdmin)
	platform := activeOperator(permission.RolePlatformAdmin)
	peer := activeOperator(permission.RolePlatformAdmin)

	if err := a.AuthorizeAdminister(super, platform); err != nil {
		t.Fatalf("higher rank should administer lower: %v", err)
	}
	if err := a.AuthorizeAdminister(platform, super); !errors.Is(err, ErrPermissionDenied) {
		t.Fatal("lower rank must not administer higher")
	}
	if err := a.AuthorizeAdminister(platform, peer); !errors.Is(err, ErrPermissionDenied) {
		t.Fatal("equal ranks must not administer each other")
	}
}
