package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arinum/project-dashboard-iam/internal/usecase"
)

// RoleHandler exposes role administration endpoints.
type RoleHandler struct {
	roles *usecase.RoleService
}

func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// RegisterRoutes binds role routes. Callers gate the group with the
// appropriate auth middleware.
func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
}

func (h *RoleHandler) list(c *gin.Context) {
	entries, err := h.roles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	resp := RoleListResponse{Roles: make([]RoleEntry, 0, len(entries))}
	for _, entry := range entries {
		item := RoleEntry{
			Role:        newRolePayload(entry.Role),
			Permissions: make([]PermissionPayload, 0, len(entry.Permissions)),
		}
		for _, perm := range entry.Permissions {
			item.Permissions = append(item.Permissions, newPermissionPayload(perm))
		}
		resp.Roles = append(resp.Roles, item)
	}

	c.JSON(http.StatusOK, resp)
}
