package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/core/port"
)

// RoleWithPermissions is a role listing entry for administrative views.
type RoleWithPermissions struct {
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

// RoleService exposes role administration reads.
type RoleService struct {
	roles port.RoleRepository
	log   *zap.Logger
}

func NewRoleService(roles port.RoleRepository, log *zap.Logger) *RoleService {
	return &RoleService{roles: roles, log: log}
}

// List returns every role together with its granted permissions.
func (s *RoleService) List(ctx context.Context) ([]RoleWithPermissions, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	out := make([]RoleWithPermissions, 0, len(roles))
	for _, role := range roles {
		perms, err := s.roles.GetRolePermissions(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("get permissions for role %s: %w", role.Name, err)
		}
		out = append(out, RoleWithPermissions{Role: role, Permissions: perms})
	}

	return out, nil
}
