package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/core/port"
	"github.com/arinum/project-dashboard-iam/internal/repository"
)

// IdentityRepository resolves the flattened role/permission projection for a
// user with a single join query.
type IdentityRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewIdentityRepository constructs a PostgreSQL-backed identity resolver.
func NewIdentityRepository(exec pgExecutor) *IdentityRepository {
	return &IdentityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ResolveWithRoles loads the active user together with every role and
// permission reachable through the user's assignments. The join fans out one
// row per (role, permission) edge; duplicates are collapsed here so callers
// always see each role and each (resource, action) pair exactly once.
func (r *IdentityRepository) ResolveWithRoles(ctx context.Context, userID string) (*domain.Identity, error) {
	stmt, args, err := r.builder.Select(
		"u.id",
		"u.email",
		"u.first_name",
		"u.last_name",
		"u.is_active",
		"r.id",
		"r.name",
		"r.description",
		"p.name",
		"p.resource",
		"p.action",
	).
		From("users u").
		LeftJoin("user_roles ur ON ur.user_id = u.id").
		LeftJoin("roles r ON r.id = ur.role_id").
		LeftJoin("role_permissions rp ON rp.role_id = r.id").
		LeftJoin("permissions p ON p.id = rp.permission_id").
		Where(squirrel.Eq{"u.id": userID}).
		Where(squirrel.Eq{"u.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build resolve identity sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query identity: %w", err)
	}
	defer rows.Close()

	var (
		identity  *domain.Identity
		seenRoles = make(map[string]struct{})
		seenPerms = make(map[string]struct{})
	)

	for rows.Next() {
		var (
			id, email, firstName, lastName string
			isActive                       bool
			roleID, roleName, roleDesc     sql.NullString
			permName, permResource         sql.NullString
			permAction                     sql.NullString
		)

		if err := rows.Scan(
			&id,
			&email,
			&firstName,
			&lastName,
			&isActive,
			&roleID,
			&roleName,
			&roleDesc,
			&permName,
			&permResource,
			&permAction,
		); err != nil {
			return nil, fmt.Errorf("scan identity row: %w", err)
		}

		if identity == nil {
			identity = &domain.Identity{
				ID:          id,
				Email:       email,
				FirstName:   firstName,
				LastName:    lastName,
				IsActive:    isActive,
				Roles:       make([]domain.Role, 0),
				Permissions: make([]domain.PermissionClaim, 0),
			}
		}

		if roleID.Valid && roleName.Valid {
			if _, seen := seenRoles[roleID.String]; !seen {
				seenRoles[roleID.String] = struct{}{}
				role := domain.Role{ID: roleID.String, Name: roleName.String}
				if roleDesc.Valid {
					desc := roleDesc.String
					role.Description = &desc
				}
				identity.Roles = append(identity.Roles, role)
			}
		}

		if permResource.Valid && permAction.Valid {
			key := permResource.String + "." + permAction.String
			if _, seen := seenPerms[key]; !seen {
				seenPerms[key] = struct{}{}
				identity.Permissions = append(identity.Permissions, domain.PermissionClaim{
					Resource: permResource.String,
					Action:   permAction.String,
				})
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identity rows: %w", err)
	}

	if identity == nil {
		return nil, repository.ErrNotFound
	}

	return identity, nil
}

var _ port.IdentityRepository = (*IdentityRepository)(nil)
