package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/core/port"
	"github.com/arinum/project-dashboard-iam/internal/repository"
)

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a repository backed by any executor that satisfies
// pgExecutor (pool, transaction, or mock).
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.insertUser(user).ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// CreateWithRole inserts the user and its default role assignment atomically.
// A failed role assignment rolls the user row back as well.
func (r *UserRepository) CreateWithRole(ctx context.Context, user domain.User, roleID string) error {
	beginner, ok := r.exec.(pgBeginner)
	if !ok {
		return fmt.Errorf("executor does not support transactions")
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	stmt, args, err := r.insertUser(user).ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	stmt, args, err = r.builder.Insert("user_roles").
		Columns("user_id", "role_id", "assigned_at").
		Values(user.ID, roleID, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build assign role sql: %w", err)
	}
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("assign default role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.selectUsers().
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves a user by email, matching case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.selectUsers().
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", email)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *UserRepository) insertUser(user domain.User) squirrel.InsertBuilder {
	return r.builder.Insert("users").
		Columns(
			"id",
			"email",
			"password",
			"first_name",
			"last_name",
			"is_active",
			"created_at",
			"updated_at",
		).
		Values(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		)
}

func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return r.builder.Select(
		"id",
		"email",
		"password",
		"first_name",
		"last_name",
		"is_active",
		"created_at",
		"updated_at",
	).From("users")
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
