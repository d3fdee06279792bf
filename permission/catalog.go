// Package permission defines the closed catalog of administrator
// permissions, the fixed role set, and the role-ranking rules used to
// decide whether one operator may administer another.
//
// The catalog is immutable: role permission sets are computed once at
// package init and never mutated afterwards.
package permission

// Permission names a single administrative capability. The set of valid
// permissions is closed; unknown strings never authorize anything.
type Permission string

const (
	// AdminCreate is part of the operator-management permission group.
	AdminCreate Permission = "admin:create"
	AdminRead   Permission = "admin:read"
	AdminUpdate Permission = "admin:update"
	AdminDelete Permission = "admin:delete"

	// UserRead is part of the end-user management permission group.
	UserRead   Permission = "user:read"
	UserUpdate Permission = "user:update"
	UserBan    Permission = "user:ban"
	UserDelete Permission = "user:delete"

	PostRead    Permission = "post:read"
	PostUpdate  Permission = "post:update"
	PostDelete  Permission = "post:delete"
	PostFeature Permission = "post:feature"
	PostPin     Permission = "post:pin"

	TopicRead    Permission = "topic:read"
	TopicUpdate  Permission = "topic:update"
	TopicDelete  Permission = "topic:delete"
	TopicFeature Permission = "topic:feature"

	CommentRead   Permission = "comment:read"
	CommentDelete Permission = "comment:delete"

	AnnouncementCreate Permission = "announcement:create"
	AnnouncementRead   Permission = "announcement:read"
	AnnouncementUpdate Permission = "announcement:update"
	AnnouncementDelete Permission = "announcement:delete"

	ReportRead   Permission = "report:read"
	ReportHandle Permission = "report:handle"

	StatsView   Permission = "stats:view"
	StatsExport Permission = "stats:export"

	SystemConfig Permission = "system:config"
	AuditLogView Permission = "audit:view"
)

// Role names one of the fixed administrator roles.
type Role string

const (
	// RoleSuperAdmin holds every permission in the catalog.
	RoleSuperAdmin Role = "super_admin"
	// RolePlatformAdmin manages users, content, announcements and reports.
	RolePlatformAdmin Role = "platform_admin"
	// RoleContentModerator reviews and removes user content.
	RoleContentModerator Role = "content_moderator"
	// RoleDataAnalyst has read-only access to statistics and content.
	RoleDataAnalyst Role = "data_analyst"
)

type roleSpec struct {
	rank  int
	perms []Permission
}

var allPermissions = []Permission{
	AdminCreate, AdminRead, AdminUpdate, AdminDelete,
	UserRead, UserUpdate, UserBan, UserDelete,
	PostRead, PostUpdate, PostDelete, PostFeature, PostPin,
	TopicRead, TopicUpdate, TopicDelete, TopicFeature,
	CommentRead, CommentDelete,
	AnnouncementCreate, AnnouncementRead, AnnouncementUpdate, AnnouncementDelete,
	ReportRead, ReportHandle,
	StatsView, StatsExport,
	SystemConfig, AuditLogView,
}

var roles = map[Role]roleSpec{
	RoleSuperAdmin: {
		rank:  10,
		perms: allPermissions,
	},
	RolePlatformAdmin: {
		rank: 5,
		perms: []Permission{
			UserRead, UserUpdate, UserBan,
			PostRead, PostUpdate, PostDelete, PostFeature, PostPin,
			TopicRead, TopicUpdate, TopicDelete, TopicFeature,
			CommentRead, CommentDelete,
			AnnouncementCreate, AnnouncementRead, AnnouncementUpdate, AnnouncementDelete,
			ReportRead, ReportHandle,
			StatsView, AuditLogView,
		},
	},
	RoleContentModerator: {
		rank: 3,
		perms: []Permission{
			UserRead,
			PostRead, PostUpdate, PostDelete,
			TopicRead, TopicUpdate, TopicDelete,
			CommentRead, CommentDelete,
			ReportRead, ReportHandle,
			StatsView,
		},
	},
	RoleDataAnalyst: {
		rank: 2,
		perms: []Permission{
			StatsView, StatsExport,
			UserRead, PostRead, TopicRead,
		},
	},
}

// roleSets is the frozen lookup form of the catalog, built once at init.
var roleSets map[Role]map[Permission]struct{}

// validPermissions guards against permissions that were never cataloged.
var validPermissions map[Permission]struct{}

func init() {
	roleSets = make(map[Role]map[Permission]struct{}, len(roles))
	for role, spec := range roles {
		set := make(map[Permission]struct{}, len(spec.perms))
		for _, p := range spec.perms {
			set[p] = struct{}{}
		}
		roleSets[role] = set
	}

	validPermissions = make(map[Permission]struct{}, len(allPermissions))
	for _, p := range allPermissions {
		validPermissions[p] = struct{}{}
	}
}

// All returns every permission in the catalog, in declaration order.
func All() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Valid reports whether the permission exists in the catalog.
func Valid(p Permission) bool {
	_, ok := validPermissions[p]
	return ok
}

// ValidRole reports whether the role is one of the fixed roles.
func ValidRole(r Role) bool {
	_, ok := roles[r]
	return ok
}

// ForRole returns the permission list granted to the role. Unknown roles
// yield an empty list.
func ForRole(r Role) []Permission {
	spec, ok := roles[r]
	if !ok {
		return nil
	}
	out := make([]Permission, len(spec.perms))
	copy(out, spec.perms)
	return out
}

// RankOf returns the role's administrative rank. Unknown roles rank 0.
func RankOf(r Role) int {
	spec, ok := roles[r]
	if !ok {
		return 0
	}
	return spec.rank
}

// CanAdminister reports whether an operator holding the actor role may
// administer an operator holding the target role. Strictly higher rank is
// required; equal ranks cannot manage each other.
func CanAdminister(actor, target Role) bool {
	return RankOf(actor) > RankOf(target)
}

// RoleHas reports whether the role grants the permission.
func RoleHas(r Role, p Permission) bool {
	set, ok := roleSets[r]
	if !ok {
		return false
	}
	_, ok = set[p]
	return ok
}

// Has reports whether the granted set contains the permission.
func Has(granted []Permission, p Permission) bool {
	for _, g := range granted {
		if g == p {
			return true
		}
	}
	return false
}

// HasAny reports whether the granted set contains at least one of the
// wanted permissions. An empty wanted list never authorizes.
func HasAny(granted []Permission, wanted ...Permission) bool {
	for _, w := range wanted {
		if Has(granted, w) {
			return true
		}
	}
	return false
}

// HasAll reports whether the granted set contains every wanted permission.
// An empty wanted list is vacuously satisfied.
func HasAll(granted []Permission, wanted ...Permission) bool {
	for _, w := range wanted {
		if !Has(granted, w) {
			return false
		}
	}
	return true
}
