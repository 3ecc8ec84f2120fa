package rbac

import "github.com/arinum/project-dashboard-iam/internal/core/domain"

// RoleGrants is the canonical permission matrix seeded into storage for the
// well-known roles. The evaluation functions never consult it directly; they
// read whatever permissions the identity actually resolved with.
var RoleGrants = map[string][]domain.PermissionClaim{
	RoleAdmin: {
		{Resource: "user", Action: "create"},
		{Resource: "user", Action: "read"},
		{Resource: "user", Action: "update"},
		{Resource: "user", Action: "delete"},
		{Resource: "role", Action: "create"},
		{Resource: "role", Action: "read"},
		{Resource: "role", Action: "update"},
		{Resource: "role", Action: "delete"},
		{Resource: "analytics", Action: "read"},
		{Resource: "analytics", Action: "create"},
		{Resource: "post", Action: "create"},
		{Resource: "post", Action: "read"},
		{Resource: "post", Action: "update"},
		{Resource: "post", Action: "delete"},
		{Resource: "post", Action: "publish"},
		{Resource: "department", Action: "read"},
		{Resource: "department", Action: "manage"},
	},
	RoleManager: {
		{Resource: "user", Action: "read"},
		{Resource: "analytics", Action: "read"},
		{Resource: "post", Action: "create"},
		{Resource: "post", Action: "read"},
		{Resource: "post", Action: "update"},
		{Resource: "post", Action: "publish"},
		{Resource: "department", Action: "read"},
	},
	RoleUser: {
		{Resource: "post", Action: "create"},
		{Resource: "post", Action: "read"},
		{Resource: "post", Action: "update"},
	},
}

// RoleDescriptions labels the well-known roles for seeding.
var RoleDescriptions = map[string]string{
	RoleAdmin:   "System administrator",
	RoleManager: "Project manager",
	RoleUser:    "Regular user",
}
