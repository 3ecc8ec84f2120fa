package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/core/port"
	"github.com/arinum/project-dashboard-iam/internal/repository"
)

// RoleRepository implements role persistence operations.
type RoleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(exec pgExecutor) *RoleRepository {
	return &RoleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new role.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert("roles").
		Columns("id", "name", "description", "created_at", "updated_at").
		Values(role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// GetByName retrieves a role by its unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "created_at", "updated_at").
		From("roles").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by name sql: %w", err)
	}

	return r.scanRole(r.exec.QueryRow(ctx, stmt, args...))
}

// List retrieves all roles sorted by name.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "created_at", "updated_at").
		From("roles").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	return r.collectRoles(rows)
}

// AssignPermissions links the provided permissions to the role.
func (r *RoleRepository) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	query := r.builder.Insert("role_permissions").
		Columns("role_id", "permission_id")

	for _, permissionID := range permissionIDs {
		query = query.Values(roleID, permissionID)
	}

	stmt, args, err := query.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build assign role permissions sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("assign role permissions: %w", err)
	}

	return nil
}

// GetRolePermissions returns the permissions currently attached to the role.
func (r *RoleRepository) GetRolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("p.id", "p.name", "p.description", "p.resource", "p.action", "p.created_at").
		From("permissions p").
		Join("role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.resource ASC", "p.action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build role permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	defer rows.Close()

	permissions := make([]domain.Permission, 0)
	for rows.Next() {
		var (
			permission  domain.Permission
			description sql.NullString
		)
		if err := rows.Scan(
			&permission.ID,
			&permission.Name,
			&description,
			&permission.Resource,
			&permission.Action,
			&permission.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		if description.Valid {
			desc := description.String
			permission.Description = &desc
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role permissions: %w", err)
	}

	return permissions, nil
}

func (r *RoleRepository) scanRole(row pgx.Row) (*domain.Role, error) {
	var (
		role        domain.Role
		description sql.NullString
	)

	if err := row.Scan(&role.ID, &role.Name, &description, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	if description.Valid {
		role.Description = &description.String
	}

	return &role, nil
}

func (r *RoleRepository) collectRoles(rows pgx.Rows) ([]domain.Role, error) {
	roles := make([]domain.Role, 0)
	for rows.Next() {
		var (
			role        domain.Role
			description sql.NullString
		)
		if err := rows.Scan(&role.ID, &role.Name, &description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if description.Valid {
			desc := description.String
			role.Description = &desc
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
