package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/repository"
)

func testUser() domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           "user-1",
		Email:        "user@example.com",
		PasswordHash: "$2a$12$hash",
		FirstName:    "Regular",
		LastName:     "User",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateWithRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := testUser()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(user.ID, "role-user", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := repo.CreateWithRole(context.Background(), user, "role-user"); err != nil {
		t.Fatalf("CreateWithRole returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateWithRoleRollsBackOnAssignmentFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := testUser()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(user.ID, "role-user", pgxmock.AnyArg()).
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	if err := repo.CreateWithRole(context.Background(), user, "role-user"); err == nil {
		t.Fatal("expected error when role assignment fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	user := testUser()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_unique"})

	if err := repo.Create(context.Background(), user); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	want := testUser()

	rows := pgxmock.NewRows([]string{
		"id", "email", "password", "first_name", "last_name", "is_active", "created_at", "updated_at",
	}).AddRow(
		want.ID, want.Email, want.PasswordHash, want.FirstName, want.LastName, want.IsActive, want.CreatedAt, want.UpdatedAt,
	)

	mock.ExpectQuery(`SELECT .*FROM users`).
		WithArgs("USER@Example.COM").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "USER@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.ID != want.ID || user.Email != want.Email {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM users`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "password", "first_name", "last_name", "is_active", "created_at", "updated_at",
		}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
