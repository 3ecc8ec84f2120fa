package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arinum/project-dashboard-iam/internal/infra/config"
	"github.com/arinum/project-dashboard-iam/internal/rbac"
	"github.com/arinum/project-dashboard-iam/internal/transport/http/handlers"
	"github.com/arinum/project-dashboard-iam/internal/transport/http/middleware"
	"github.com/arinum/project-dashboard-iam/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth  *usecase.AuthService
	Roles *usecase.RoleService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Metrics  *middleware.HTTPMetrics
	Services ServiceSet
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.RouteGuard(deps.Services.Auth))

	healthHandler := handlers.NewHealthHandler()
	r.GET("/healthz", healthHandler.Status)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Config.App.IsProduction())
		authHandler.RegisterRoutes(authGroup)

		if deps.Services.Roles != nil {
			rolesGroup := api.Group("/roles")
			rolesGroup.Use(authMiddleware, middleware.RequireRole(rbac.RoleAdmin))
			roleHandler := handlers.NewRoleHandler(deps.Services.Roles)
			roleHandler.RegisterRoutes(rolesGroup)
		}
	}

	return r
}
