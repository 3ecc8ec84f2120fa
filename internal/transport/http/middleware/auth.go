package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/infra/security"
	"github.com/arinum/project-dashboard-iam/internal/rbac"
	"github.com/arinum/project-dashboard-iam/internal/usecase"
)

// AuthCookieName is the HttpOnly cookie that carries the access token.
const AuthCookieName = "auth_token"

// TokenVerifier checks a token signature and expiry without touching storage.
type TokenVerifier interface {
	VerifyToken(token string) (*security.AccessTokenClaims, error)
}

// IdentityResolver verifies a token and re-reads the caller's identity from
// storage.
type IdentityResolver interface {
	ResolveFromToken(ctx context.Context, token string) (*domain.Identity, error)
}

// ExtractToken returns the access token from the auth cookie or, failing
// that, the Authorization bearer header. The cookie is authoritative when
// both are present.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	return ""
}

// RouteGuard enforces the browser-facing access rules on every request:
// unauthenticated requests to protected routes redirect to the login page
// with a redirect parameter, authenticated requests to the auth pages bounce
// to the dashboard, and role-gated routes redirect under-privileged callers
// to the unauthorized page. For API paths the verified claims are injected
// as x-user-* headers for downstream handlers. Evaluation is purely
// token-based; no storage reads happen per request.
func RouteGuard(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		token := ExtractToken(c)

		if rbac.IsProtectedRoute(path) && token == "" {
			redirectToLogin(c, path)
			return
		}

		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			if rbac.IsProtectedRoute(path) {
				clearAuthCookie(c)
				c.Redirect(http.StatusTemporaryRedirect, "/login")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if rbac.IsAuthRoute(path) {
			c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
			c.Abort()
			return
		}

		// Evaluate roles from the token claims alone; the fresh storage
		// read is reserved for RequireAuth on the API surface.
		identity := claims.Identity()

		if rbac.IsAdminRoute(path) && !rbac.IsAdmin(identity) {
			c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
			c.Abort()
			return
		}

		if rbac.IsManagerRoute(path) && !rbac.IsManager(identity) && !rbac.IsAdmin(identity) {
			c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
			c.Abort()
			return
		}

		if strings.HasPrefix(path, "/api/") {
			injectIdentityHeaders(c, claims)
		}

		c.Next()
	}
}

// RequireAuth resolves the caller's identity from the token and stores it in
// the request context. Unlike RouteGuard it reads the identity fresh from
// storage, so role changes after issuance take effect immediately.
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		identity, err := resolver.ResolveFromToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			case errors.Is(err, security.ErrInvalidToken), errors.Is(err, usecase.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve identity"})
			}
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireRole allows the request through only when the resolved identity
// carries at least one of the given roles. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if !rbac.HasAnyRole(identity, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireAuth, or nil.
func GetIdentity(c *gin.Context) *domain.Identity {
	raw, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}

	identity, ok := raw.(*domain.Identity)
	if !ok {
		return nil
	}

	return identity
}

func redirectToLogin(c *gin.Context, from string) {
	loginURL := url.URL{
		Path:     "/login",
		RawQuery: url.Values{"redirect": {from}}.Encode(),
	}
	c.Redirect(http.StatusTemporaryRedirect, loginURL.String())
	c.Abort()
}

func clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", false, true)
}

func injectIdentityHeaders(c *gin.Context, claims *security.AccessTokenClaims) {
	roles, err := json.Marshal(claims.Roles)
	if err != nil {
		return
	}
	permissions, err := json.Marshal(claims.Permissions)
	if err != nil {
		return
	}

	c.Request.Header.Set("x-user-id", claims.UserID)
	c.Request.Header.Set("x-user-email", claims.Email)
	c.Request.Header.Set("x-user-roles", string(roles))
	c.Request.Header.Set("x-user-permissions", string(permissions))
}
