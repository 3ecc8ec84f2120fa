package port

import (
	"context"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
)

// IdentityRepository computes the flattened role/permission projection for a
// user in a single store round-trip.
type IdentityRepository interface {
	// ResolveWithRoles loads the active user plus the deduplicated union of
	// roles and permissions reachable through them. A user with no roles
	// resolves with empty slices; an unknown or inactive user yields
	// repository.ErrNotFound.
	ResolveWithRoles(ctx context.Context, userID string) (*domain.Identity, error)
}
