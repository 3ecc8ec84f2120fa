package domain

import "time"

// Role defines a named bundle of permissions.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Permission defines a named capability keyed by its resource/action pair.
type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRole assigns a role to a user.
type UserRole struct {
	UserID     string
	RoleID     string
	AssignedAt time.Time
}

// RolePermission links a role with a permission.
type RolePermission struct {
	RoleID       string
	PermissionID string
	GrantedAt    time.Time
}
