package domain

import "time"

// User mirrors the persisted representation in the users table. PasswordHash
// never leaves the credential store and hasher; API projections use Identity.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PermissionClaim is the atomic unit of authorization: a (resource, action)
// pair such as (project, update).
type PermissionClaim struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Identity is the flattened, read-only projection of a user together with the
// deduplicated union of roles and permissions reachable through those roles.
// It is recomputed on every resolution, never patched incrementally.
type Identity struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	IsActive    bool              `json:"isActive"`
	Roles       []Role            `json:"roles"`
	Permissions []PermissionClaim `json:"permissions"`
}
