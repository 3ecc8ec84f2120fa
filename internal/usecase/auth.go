package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
	"github.com/arinum/project-dashboard-iam/internal/core/port"
	"github.com/arinum/project-dashboard-iam/internal/infra/logger"
	"github.com/arinum/project-dashboard-iam/internal/infra/security"
	"github.com/arinum/project-dashboard-iam/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// deactivated accounts alike; callers must not be able to tell
	// which one happened.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenCodec issues and verifies access tokens.
type TokenCodec interface {
	Issue(userID, email string, roles []string, permissions []domain.PermissionClaim) (string, error)
	Verify(token string) (*security.AccessTokenClaims, error)
	TTL() time.Duration
}

// RegisterInput carries a new account request. Fields arrive already
// validated at the transport layer.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult pairs the resolved identity with a freshly minted token.
type AuthResult struct {
	Identity *domain.Identity
	Token    string
}

// AuthService implements credential verification, registration and token
// based identity resolution.
type AuthService struct {
	users      port.UserRepository
	roles      port.RoleRepository
	identities port.IdentityRepository
	codec      TokenCodec
	log        *zap.Logger
}

func NewAuthService(
	users port.UserRepository,
	roles port.RoleRepository,
	identities port.IdentityRepository,
	codec TokenCodec,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		roles:      roles,
		identities: identities,
		codec:      codec,
		log:        log,
	}
}

// TokenTTL exposes the configured token lifetime for cookie expiry.
func (s *AuthService) TokenTTL() time.Duration { return s.codec.TTL() }

// Login verifies the credentials and returns the caller's identity with a
// signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	identity, err := s.identities.ResolveWithRoles(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	token, err := s.issueToken(identity)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", identity.ID),
		zap.String("email", logger.MaskEmail(identity.Email)),
	)

	return &AuthResult{Identity: identity, Token: token}, nil
}

// Register creates an account, assigns the default user role when it exists
// and signs the caller in. Creating the account and assigning the role happen
// in one transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	defaultRole, err := s.roles.GetByName(ctx, "user")
	switch {
	case err == nil:
		err = s.users.CreateWithRole(ctx, user, defaultRole.ID)
	case errors.Is(err, repository.ErrNotFound):
		// Seed data is missing the default role; the account is still
		// created and ranks as a plain user until roles are assigned.
		s.log.Warn("default user role missing, creating account without role assignment")
		err = s.users.Create(ctx, user)
	default:
		return nil, fmt.Errorf("get default role: %w", err)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	identity, err := s.identities.ResolveWithRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	token, err := s.issueToken(identity)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", identity.ID),
		zap.String("email", logger.MaskEmail(identity.Email)),
	)

	return &AuthResult{Identity: identity, Token: token}, nil
}

// VerifyToken checks the token signature and expiry and returns its claims
// without touching storage.
func (s *AuthService) VerifyToken(token string) (*security.AccessTokenClaims, error) {
	return s.codec.Verify(token)
}

// ResolveFromToken verifies the token and re-reads the identity from storage,
// so role changes made after issuance take effect immediately.
func (s *AuthService) ResolveFromToken(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	identity, err := s.identities.ResolveWithRoles(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return identity, nil
}

func (s *AuthService) issueToken(identity *domain.Identity) (string, error) {
	roleNames := make([]string, 0, len(identity.Roles))
	for _, role := range identity.Roles {
		roleNames = append(roleNames, role.Name)
	}

	token, err := s.codec.Issue(identity.ID, identity.Email, roleNames, identity.Permissions)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
