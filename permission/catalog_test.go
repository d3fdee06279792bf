package permission

import "testing"

func TestSuperAdminHasEveryPermission(t *testing.T) {
	for _, p := range All() {
		if !RoleHas(RoleSuperAdmin, p) {
			t.Fatalf("super_admin missing %s", p)
		}
	}
}

func TestForRoleUnknownRoleIsEmpty(t *testing.T) {
	if perms := ForRole(Role("janitor")); len(perms) != 0 {
		t.Fatalf("expected empty permission set for unknown role, got %v", perms)
	}
	if RankOf(Role("janitor")) != 0 {
		t.Fatal("expected rank 0 for unknown role")
	}
}

func TestRoleGrants(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RolePlatformAdmin, UserBan, true},
		{RolePlatformAdmin, AdminCreate, false},
		{RolePlatformAdmin, StatsExport, false},
		{RoleContentModerator, CommentDelete, true},
		{RoleContentModerator, AnnouncementCreate, false},
		{RoleContentModerator, UserBan, false},
		{RoleDataAnalyst, StatsExport, true},
		{RoleDataAnalyst, PostDelete, false},
	}

	for _, tt := range tests {
		if got := RoleHas(tt.role, tt.perm); got != tt.want {
			t.Errorf("RoleHas(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestCanAdministerRequiresStrictlyHigherRank(t *testing.T) {
	if !CanAdminister(RoleSuperAdmin, RolePlatformAdmin) {
		t.Fatal("super_admin should administer platform_admin")
	}
	if CanAdminister(RolePlatformAdmin, RolePlatformAdmin) {
		t.Fatal("equal ranks must not administer each other")
	}
	if CanAdminister(RoleDataAnalyst, RoleSuperAdmin) {
		t.Fatal("lower rank must not administer higher rank")
	}
	// Unknown roles rank 0 and therefore cannot administer anyone,
	// but anyone known can administer them.
	if CanAdminister(Role("ghost"), RoleDataAnalyst) {
		t.Fatal("unknown role must not administer")
	}
	if !CanAdminister(RoleDataAnalyst, Role("ghost")) {
		t.Fatal("known role should administer unknown role")
	}
}

func TestSetOperations(t *testing.T) {
	granted := ForRole(RoleDataAnalyst)

	if !Has(granted, StatsView) {
		t.Fatal("expected stats:view in data_analyst set")
	}
	if Has(granted, SystemConfig) {
		t.Fatal("did not expect system:config in data_analyst set")
	}
	if !HasAny(granted, SystemConfig, StatsExport) {
		t.Fatal("expected HasAny to match stats:export")
	}
	if HasAny(granted) {
		t.Fatal("empty wanted list must not authorize")
	}
	if !HasAll(granted, StatsView, UserRead) {
		t.Fatal("expected HasAll for granted permissions")
	}
	if HasAll(granted, StatsView, UserBan) {
		t.Fatal("HasAll must fail when one permission is missing")
	}
}

func TestValid(t *testing.T) {
	if !Valid(PostPin) {
		t.Fatal("post:pin should be a cataloged permission")
	}
	if Valid(Permission("post:teleport")) {
		t.Fatal("uncataloged permission must be invalid")
	}
	if !ValidRole(RoleContentModerator) {
		t.Fatal("content_moderator should be a valid role")
	}
	if ValidRole(Role("root")) {
		t.Fatal("root is not a valid role")
	}
}
