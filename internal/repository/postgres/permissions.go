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

// PermissionRepository implements permission catalogue persistence.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a PostgreSQL-backed permission repository.
func NewPermissionRepository(exec pgExecutor) *PermissionRepository {
	return &PermissionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new permission.
func (r *PermissionRepository) Create(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Insert("permissions").
		Columns("id", "name", "description", "resource", "action", "created_at").
		Values(
			permission.ID,
			permission.Name,
			permission.Description,
			permission.Resource,
			permission.Action,
			permission.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

// List retrieves the full permission catalogue ordered by resource and action.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "resource", "action", "created_at").
		From("permissions").
		OrderBy("resource ASC", "action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
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
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		if description.Valid {
			desc := description.String
			permission.Description = &desc
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
