package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// IdentityResponse wraps the resolved identity the way browser clients
// expect it.
type IdentityResponse struct {
	User *domain.Identity `json:"user"`
}

// PermissionPayload describes a permission entry in role listings.
type PermissionPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Resource    string  `json:"resource"`
	Action      string  `json:"action"`
}

// RolePayload summarizes a role entity.
type RolePayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// RoleEntry pairs a role with its granted permissions.
type RoleEntry struct {
	Role        RolePayload         `json:"role"`
	Permissions []PermissionPayload `json:"permissions"`
}

// RoleListResponse wraps multiple roles.
type RoleListResponse struct {
	Roles []RoleEntry `json:"roles"`
}

func newRolePayload(role domain.Role) RolePayload {
	return RolePayload{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
	}
}

func newPermissionPayload(permission domain.Permission) PermissionPayload {
	return PermissionPayload{
		ID:          permission.ID,
		Name:        permission.Name,
		Description: permission.Description,
		Resource:    permission.Resource,
		Action:      permission.Action,
	}
}
