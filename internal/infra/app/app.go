package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arinum/project-dashboard-iam/internal/infra/config"
	"github.com/arinum/project-dashboard-iam/internal/infra/database"
	"github.com/arinum/project-dashboard-iam/internal/infra/logger"
	"github.com/arinum/project-dashboard-iam/internal/infra/security"
	postgresrepo "github.com/arinum/project-dashboard-iam/internal/repository/postgres"
	"github.com/arinum/project-dashboard-iam/internal/transport/http/middleware"
	"github.com/arinum/project-dashboard-iam/internal/transport/http/routes"
	"github.com/arinum/project-dashboard-iam/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	codec, err := security.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.TokenTTL, cfg.JWT.Issuer)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	authService := usecase.NewAuthService(repos.Users, repos.Roles, repos.Identities, codec, log)
	roleService := usecase.NewRoleService(repos.Roles, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Services: routes.ServiceSet{
			Auth:  authService,
			Roles: roleService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting dashboard IAM API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
