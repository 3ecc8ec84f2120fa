// Package rbac implements the role and permission evaluation rules for the
// dashboard. All checks operate on a resolved *domain.Identity and are pure:
// no storage or network access happens here.
package rbac

import (
	"github.com/arinum/project-dashboard-iam/internal/core/domain"
)

// Well-known role names. Roles outside this set may exist in storage but
// carry no built-in precedence.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
	RoleGuest   = "guest"
)

// RolePrecedence orders the well-known roles from most to least privileged.
// HighestRole walks this list in order.
var RolePrecedence = []string{RoleAdmin, RoleManager, RoleUser}

// HasRole reports whether the identity carries the named role.
// A nil identity has no roles.
func HasRole(identity *domain.Identity, role string) bool {
	if identity == nil {
		return false
	}
	for _, r := range identity.Roles {
		if r.Name == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity carries at least one of the
// named roles.
func HasAnyRole(identity *domain.Identity, roles ...string) bool {
	for _, role := range roles {
		if HasRole(identity, role) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the identity holds a permission on the given
// resource and action. Matching is exact: no wildcard expansion.
func HasPermission(identity *domain.Identity, resource, action string) bool {
	if identity == nil {
		return false
	}
	for _, p := range identity.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the identity holds at least one of the
// given permission claims.
func HasAnyPermission(identity *domain.Identity, claims ...domain.PermissionClaim) bool {
	for _, c := range claims {
		if HasPermission(identity, c.Resource, c.Action) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the admin role.
func IsAdmin(identity *domain.Identity) bool { return HasRole(identity, RoleAdmin) }

// IsManager reports whether the identity carries the manager role.
func IsManager(identity *domain.Identity) bool { return HasRole(identity, RoleManager) }

// IsUser reports whether the identity carries the user role.
func IsUser(identity *domain.Identity) bool { return HasRole(identity, RoleUser) }

// HighestRole returns the most privileged well-known role the identity
// carries. A nil identity is a guest. An authenticated identity whose roles
// include none of the well-known names still ranks as a user: being signed in
// grants the baseline tier even when role assignment is missing.
func HighestRole(identity *domain.Identity) string {
	if identity == nil {
		return RoleGuest
	}
	for _, role := range RolePrecedence {
		if HasRole(identity, role) {
			return role
		}
	}
	return RoleUser
}

// DisplayName returns the identity's full name, or "Guest" for nil.
func DisplayName(identity *domain.Identity) string {
	if identity == nil {
		return "Guest"
	}
	return identity.FirstName + " " + identity.LastName
}

// CanManageUsers reports whether the identity may administer user accounts:
// any of create, update or delete on the user resource qualifies.
func CanManageUsers(identity *domain.Identity) bool {
	return HasPermission(identity, "user", "create") ||
		HasPermission(identity, "user", "update") ||
		HasPermission(identity, "user", "delete")
}

// CanManageRoles reports whether the identity may administer roles.
func CanManageRoles(identity *domain.Identity) bool {
	return HasPermission(identity, "role", "create") ||
		HasPermission(identity, "role", "update") ||
		HasPermission(identity, "role", "delete")
}

// CanViewAnalytics reports whether the identity may read analytics data.
func CanViewAnalytics(identity *domain.Identity) bool {
	return HasPermission(identity, "analytics", "read")
}

// CanManagePosts reports whether the identity may manage posts beyond
// reading them.
func CanManagePosts(identity *domain.Identity) bool {
	return HasPermission(identity, "post", "create") ||
		HasPermission(identity, "post", "update") ||
		HasPermission(identity, "post", "publish")
}

// CanManageDepartments reports whether the identity may manage departments.
func CanManageDepartments(identity *domain.Identity) bool {
	return HasPermission(identity, "department", "manage")
}

// AccessibleRoutes lists the dashboard routes the identity may navigate to,
// tiered by its highest role. Guests only see the auth pages.
func AccessibleRoutes(identity *domain.Identity) []string {
	if identity == nil {
		return []string{"/login", "/register"}
	}

	routes := []string{"/dashboard", "/profile"}

	switch HighestRole(identity) {
	case RoleAdmin:
		routes = append(routes, "/admin", "/admin/users", "/admin/roles")
		routes = append(routes, "/analytics", "/departments")
	case RoleManager:
		routes = append(routes, "/analytics", "/departments")
	}

	return routes
}

// FilterOwned narrows a record set to what the identity may see. Admins see
// everything. Managers currently also see everything.
// TODO: scope manager visibility to their department once departments carry
// membership.
// Everyone else sees only records they own. A nil identity sees nothing.
func FilterOwned[T any](identity *domain.Identity, items []T, ownerID func(T) string) []T {
	if identity == nil {
		return []T{}
	}
	if IsAdmin(identity) || IsManager(identity) {
		return items
	}

	owned := make([]T, 0, len(items))
	for _, item := range items {
		if ownerID(item) == identity.ID {
			owned = append(owned, item)
		}
	}
	return owned
}
