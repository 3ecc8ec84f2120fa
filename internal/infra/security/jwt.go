package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/arinum/project-dashboard-iam/internal/core/domain"
)

// DefaultTokenTTL applies when no lifetime override is configured.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken indicates the token is malformed or its signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token verified but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// AccessTokenClaims embeds the full authorization context in the token so
// that per-request checks need no store round-trip. The cost is that role or
// permission changes only take effect when the token is reissued.
type AccessTokenClaims struct {
	UserID      string                   `json:"uid"`
	Email       string                   `json:"email"`
	Roles       []string                 `json:"roles,omitempty"`
	Permissions []domain.PermissionClaim `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Identity projects the embedded claims into a resolved identity, allowing
// the policy engine to evaluate authorization from the token alone.
func (c *AccessTokenClaims) Identity() *domain.Identity {
	if c == nil {
		return nil
	}

	roles := make([]domain.Role, 0, len(c.Roles))
	for _, name := range c.Roles {
		roles = append(roles, domain.Role{Name: name})
	}

	return &domain.Identity{
		ID:          c.UserID,
		Email:       c.Email,
		IsActive:    true,
		Roles:       roles,
		Permissions: append([]domain.PermissionClaim(nil), c.Permissions...),
	}
}

// TokenCodec issues and verifies HMAC-signed access tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenCodec constructs a codec for the given symmetric secret. An empty
// secret is a configuration error: callers must fail startup rather than
// defer the failure to the first request.
func NewTokenCodec(secret string, ttl time.Duration, issuer string) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source, used by tests to force expiry.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	if now != nil {
		c.now = now
	}
	return c
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token carrying the supplied identity and authorization claims.
func (c *TokenCodec) Issue(userID, email string, roles []string, permissions []domain.PermissionClaim) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	issuedAt := c.now().UTC()
	claims := AccessTokenClaims{
		UserID:      userID,
		Email:       email,
		Roles:       roles,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify decodes the token, checks its signature and expiry, and returns the
// embedded claims. Expiry and tampering are reported as distinct errors.
func (c *TokenCodec) Verify(token string) (*AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &AccessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
