package port

import (
	"context"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
)

// UserRepository persists user records.
type UserRepository interface {
	// Create inserts a new user row without any role assignment.
	Create(ctx context.Context, user domain.User) error
	// CreateWithRole inserts the user and its default role assignment as a
	// single transaction; neither row exists if either write fails.
	CreateWithRole(ctx context.Context, user domain.User, roleID string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively against the stored email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
