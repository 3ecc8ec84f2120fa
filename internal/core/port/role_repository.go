package port

import (
	"context"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
)

// RoleRepository persists roles and their assignments.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error
	GetRolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error)
}

// PermissionRepository persists the static permission catalogue.
type PermissionRepository interface {
	Create(ctx context.Context, permission domain.Permission) error
	List(ctx context.Context) ([]domain.Permission, error)
}
