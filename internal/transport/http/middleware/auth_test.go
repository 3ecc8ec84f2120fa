package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/infra/security"
	"github.com/arinum/project-dashboard-iam/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type codecVerifier struct {
	codec *security.TokenCodec
}

func (v codecVerifier) VerifyToken(token string) (*security.AccessTokenClaims, error) {
	return v.codec.Verify(token)
}

func newTestCodec(t *testing.T) *security.TokenCodec {
	t.Helper()
	codec, err := security.NewTokenCodec("guard-test-secret", time.Hour, "dashboard-test")
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func guardRouter(codec *security.TokenCodec) *gin.Engine {
	r := gin.New()
	r.Use(RouteGuard(codecVerifier{codec: codec}))

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/dashboard", ok)
	r.GET("/login", ok)
	r.GET("/admin/users", ok)
	r.GET("/analytics", ok)
	r.GET("/api/protected/data", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    c.Request.Header.Get("x-user-id"),
			"email": c.Request.Header.Get("x-user-email"),
			"roles": c.Request.Header.Get("x-user-roles"),
		})
	})
	return r
}

func issueToken(t *testing.T, codec *security.TokenCodec, roles ...string) string {
	t.Helper()
	token, err := codec.Issue("user-1", "admin@example.com", roles, []domain.PermissionClaim{
		{Resource: "user", Action: "read"},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func doRequest(r *gin.Engine, path, cookie, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: cookie})
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouteGuard_AdminAccess(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)

	t.Run("admin role allowed", func(t *testing.T) {
		w := doRequest(r, "/admin/users", issueToken(t, codec, "admin"), "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("user role redirected to unauthorized", func(t *testing.T) {
		w := doRequest(r, "/admin/users", issueToken(t, codec, "user"), "")
		if w.Code != http.StatusTemporaryRedirect {
			t.Fatalf("status = %d, want 307", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/unauthorized" {
			t.Errorf("Location = %q, want /unauthorized", loc)
		}
	})
}

func TestRouteGuard_ManagerAccess(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)

	for _, role := range []string{"manager", "admin"} {
		w := doRequest(r, "/analytics", issueToken(t, codec, role), "")
		if w.Code != http.StatusOK {
			t.Errorf("%s on /analytics: status = %d, want 200", role, w.Code)
		}
	}

	w := doRequest(r, "/analytics", issueToken(t, codec, "user"), "")
	if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != "/unauthorized" {
		t.Errorf("user on /analytics: status = %d location = %q, want redirect to /unauthorized", w.Code, w.Header().Get("Location"))
	}
}

func TestRouteGuard_UnauthenticatedProtected(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)

	w := doRequest(r, "/dashboard", "", "")
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}

	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != "/login" || loc.Query().Get("redirect") != "/dashboard" {
		t.Errorf("Location = %q, want /login?redirect=/dashboard", w.Header().Get("Location"))
	}
}

func TestRouteGuard_ExpiredTokenOnProtectedRoute(t *testing.T) {
	codec := newTestCodec(t)
	codec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	token := issueToken(t, codec, "admin")
	codec.WithClock(time.Now)

	r := guardRouter(codec)
	w := doRequest(r, "/dashboard", token, "")

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == AuthCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("auth cookie was not cleared")
	}
}

func TestRouteGuard_AuthenticatedOnAuthPage(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)

	w := doRequest(r, "/login", issueToken(t, codec, "user"), "")
	if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != "/dashboard" {
		t.Errorf("status = %d location = %q, want redirect to /dashboard", w.Code, w.Header().Get("Location"))
	}
}

func TestRouteGuard_BearerFallback(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)

	w := doRequest(r, "/dashboard", "", issueToken(t, codec, "user"))
	if w.Code != http.StatusOK {
		t.Fatalf("bearer token should authenticate, status = %d", w.Code)
	}
}

func TestRouteGuard_APIHeaderInjection(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)

	w := doRequest(r, "/api/protected/data", issueToken(t, codec, "admin"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"id":"user-1"`) {
		t.Errorf("x-user-id not injected: %s", body)
	}
	if !strings.Contains(body, `"email":"admin@example.com"`) {
		t.Errorf("x-user-email not injected: %s", body)
	}
	if !strings.Contains(body, `\"admin\"`) {
		t.Errorf("x-user-roles not injected: %s", body)
	}
}

func TestRouteGuard_PublicRoutePassesThrough(t *testing.T) {
	codec := newTestCodec(t)
	r := guardRouter(codec)
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })

	w := doRequest(r, "/", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("public route should pass, status = %d", w.Code)
	}
}

type stubResolver struct {
	identity *domain.Identity
	err      error
}

func (s stubResolver) ResolveFromToken(ctx context.Context, token string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func apiRouter(resolver IdentityResolver, roles ...string) *gin.Engine {
	r := gin.New()
	group := r.Group("/api/v1/roles")
	group.Use(RequireAuth(resolver))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("", func(c *gin.Context) {
		identity := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	identity := &domain.Identity{
		ID:    "user-1",
		Email: "admin@example.com",
		Roles: []domain.Role{{ID: "role-admin", Name: "admin"}},
	}

	t.Run("no token", func(t *testing.T) {
		r := apiRouter(stubResolver{identity: identity})
		w := doRequest(r, "/api/v1/roles", "", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		r := apiRouter(stubResolver{err: security.ErrTokenExpired})
		w := doRequest(r, "/api/v1/roles", "some-token", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		r := apiRouter(stubResolver{err: usecase.ErrUserNotFound})
		w := doRequest(r, "/api/v1/roles", "some-token", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("resolved identity stored in context", func(t *testing.T) {
		r := apiRouter(stubResolver{identity: identity})
		w := doRequest(r, "/api/v1/roles", "some-token", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "user-1") {
			t.Errorf("identity not available to handler: %s", w.Body.String())
		}
	})
}

func TestRequireRole(t *testing.T) {
	admin := &domain.Identity{ID: "user-1", Roles: []domain.Role{{Name: "admin"}}}
	user := &domain.Identity{ID: "user-2", Roles: []domain.Role{{Name: "user"}}}

	t.Run("role present", func(t *testing.T) {
		r := apiRouter(stubResolver{identity: admin}, "admin")
		w := doRequest(r, "/api/v1/roles", "some-token", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("role missing", func(t *testing.T) {
		r := apiRouter(stubResolver{identity: user}, "admin")
		w := doRequest(r, "/api/v1/roles", "some-token", "")
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})
}
