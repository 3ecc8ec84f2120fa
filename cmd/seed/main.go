// Command seed provisions the well-known roles, the permission matrix and a
// set of demo accounts. It is idempotent: existing rows are left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/infra/config"
	"github.com/arinum/project-dashboard-iam/internal/infra/database"
	"github.com/arinum/project-dashboard-iam/internal/infra/logger"
	"github.com/arinum/project-dashboard-iam/internal/infra/security"
	"github.com/arinum/project-dashboard-iam/internal/rbac"
	"github.com/arinum/project-dashboard-iam/internal/repository"
	postgresrepo "github.com/arinum/project-dashboard-iam/internal/repository/postgres"
)

type demoAccount struct {
	email     string
	firstName string
	lastName  string
	role      string
}

var demoAccounts = []demoAccount{
	{email: "admin@example.com", firstName: "Admin", lastName: "User", role: rbac.RoleAdmin},
	{email: "manager@example.com", firstName: "Manager", lastName: "User", role: rbac.RoleManager},
	{email: "user@example.com", firstName: "Regular", lastName: "User", role: rbac.RoleUser},
}

// demoPassword is shared by every demo account. Not for production use.
const demoPassword = "password"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("seeding database...")

	ctx := context.Background()

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, zl)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repos := postgresrepo.NewRepositories(pool)

	roleIDs, err := seedRoles(ctx, repos)
	if err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if err := seedPermissions(ctx, repos, roleIDs); err != nil {
		log.Fatalf("failed to seed permissions: %v", err)
	}

	if err := seedDemoUsers(ctx, repos, roleIDs); err != nil {
		log.Fatalf("failed to seed demo users: %v", err)
	}

	log.Println("seeding completed")
}

func seedRoles(ctx context.Context, repos *postgresrepo.Repositories) (map[string]string, error) {
	ids := make(map[string]string, len(rbac.RolePrecedence))
	now := time.Now().UTC()

	for _, name := range rbac.RolePrecedence {
		existing, err := repos.Roles.GetByName(ctx, name)
		if err == nil {
			ids[name] = existing.ID
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get role %s: %w", name, err)
		}

		desc := rbac.RoleDescriptions[name]
		role := domain.Role{
			ID:          uuid.NewString(),
			Name:        name,
			Description: &desc,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Roles.Create(ctx, role); err != nil {
			return nil, fmt.Errorf("create role %s: %w", name, err)
		}
		ids[name] = role.ID
		log.Printf("created role %s", name)
	}

	return ids, nil
}

func seedPermissions(ctx context.Context, repos *postgresrepo.Repositories, roleIDs map[string]string) error {
	now := time.Now().UTC()

	// The permission catalogue is the union of every role's grants,
	// keyed by resource:action.
	catalogue := make(map[string]domain.PermissionClaim)
	for _, grants := range rbac.RoleGrants {
		for _, claim := range grants {
			catalogue[claim.Resource+":"+claim.Action] = claim
		}
	}

	existing, err := repos.Permissions.List(ctx)
	if err != nil {
		return fmt.Errorf("list permissions: %w", err)
	}

	permIDs := make(map[string]string, len(catalogue))
	for _, perm := range existing {
		permIDs[perm.Resource+":"+perm.Action] = perm.ID
	}

	for key, claim := range catalogue {
		if _, ok := permIDs[key]; ok {
			continue
		}

		perm := domain.Permission{
			ID:        uuid.NewString(),
			Name:      claim.Resource + ":" + claim.Action,
			Resource:  claim.Resource,
			Action:    claim.Action,
			CreatedAt: now,
		}
		if err := repos.Permissions.Create(ctx, perm); err != nil && !errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("create permission %s: %w", perm.Name, err)
		}
		permIDs[key] = perm.ID
		log.Printf("created permission %s", perm.Name)
	}

	for role, grants := range rbac.RoleGrants {
		roleID, ok := roleIDs[role]
		if !ok {
			continue
		}

		ids := make([]string, 0, len(grants))
		for _, claim := range grants {
			if id, ok := permIDs[claim.Resource+":"+claim.Action]; ok {
				ids = append(ids, id)
			}
		}
		if err := repos.Roles.AssignPermissions(ctx, roleID, ids); err != nil {
			return fmt.Errorf("assign permissions to %s: %w", role, err)
		}
	}

	return nil
}

func seedDemoUsers(ctx context.Context, repos *postgresrepo.Repositories, roleIDs map[string]string) error {
	hash, err := security.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	now := time.Now().UTC()

	for _, account := range demoAccounts {
		if _, err := repos.Users.GetByEmail(ctx, account.email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get user %s: %w", account.email, err)
		}

		user := domain.User{
			ID:           uuid.NewString(),
			Email:        account.email,
			PasswordHash: hash,
			FirstName:    account.firstName,
			LastName:     account.lastName,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		roleID, ok := roleIDs[account.role]
		if !ok {
			return fmt.Errorf("role %s missing for demo user %s", account.role, account.email)
		}

		if err := repos.Users.CreateWithRole(ctx, user, roleID); err != nil {
			return fmt.Errorf("create demo user %s: %w", account.email, err)
		}
		log.Printf("created demo user %s (%s)", account.email, account.role)
	}

	return nil
}
