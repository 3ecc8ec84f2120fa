package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arinum/project-dashboard-iam/internal/infra/security"
	"github.com/arinum/project-dashboard-iam/internal/transport/http/middleware"
	"github.com/arinum/project-dashboard-iam/internal/usecase"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	secureCookie bool
}

// NewAuthHandler constructs AuthHandler. secureCookie marks the auth cookie
// Secure, which production deployments behind TLS should enable.
func NewAuthHandler(auth *usecase.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

// RegisterRoutes binds authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.login)
	r.POST("/register", h.register)
	r.POST("/logout", h.logout)
	r.GET("/me", h.me)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "authentication failed")
		return
	}

	h.setAuthCookie(c, result.Token)
	c.JSON(http.StatusOK, IdentityResponse{User: result.Identity})
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "all fields are required"))
		return
	}
	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid email format"))
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "password must be at least 6 characters long"))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserExists, Status: http.StatusBadRequest, Message: "user already exists"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	h.setAuthCookie(c, result.Token)
	c.JSON(http.StatusCreated, IdentityResponse{User: result.Identity})
}

func (h *AuthHandler) logout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

func (h *AuthHandler) me(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "no token provided"))
		return
	}

	identity, err := h.auth.ResolveFromToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired),
			errors.Is(err, security.ErrInvalidToken),
			errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid token"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to get user info"))
		}
		return
	}

	c.JSON(http.StatusOK, IdentityResponse{User: identity})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(h.auth.TokenTTL().Seconds()), "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.secureCookie, true)
}
