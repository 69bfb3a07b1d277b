package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
)

// Identity is what a session knows about the signed-in person. It never
// carries the credential hash.
type Identity struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

// Credential pairs an identity with its stored bcrypt hash. It only lives
// inside the verifier path.
type Credential struct {
	Identity
	PasswordHash string
}

// Repository is the read side auth needs from persistence.
type Repository interface {
	// FindCredential returns internal.ErrIdentityNotFound when no identity has email.
	FindCredential(ctx context.Context, email string) (*Credential, error)
	FindIdentity(ctx context.Context, id string) (*Identity, error)
	Permissions(ctx context.Context, userID string) ([]access.Record, error)
}

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims represents JWT token claims
type Claims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Type   TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	Generate(identity Identity, typ TokenType) (token string, claims *Claims, err error)
	Validate(tokenString string, typ TokenType) (*Claims, error)
}

// Revoker blacklists token ids until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type LoginResult struct {
	Tokens      AuthTokens      `json:"tokens"`
	User        Identity        `json:"user"`
	Permissions []access.Record `json:"permissions"`
}

// ServiceAPI is what the HTTP layer needs from the auth service.
type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*internal.Principal, error)
}
