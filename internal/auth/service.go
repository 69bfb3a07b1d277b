package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
)

// Service is the main auth service with dependencies
type Service struct {
	repo    Repository
	tokens  TokenGenerator
	revoker Revoker
	logger  *slog.Logger
}

// NewService creates a new auth service. revoker may be nil, in which case
// logout is stateless and tokens stay valid until they expire.
func NewService(repo Repository, tokens TokenGenerator, revoker Revoker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
	}
}

// Login verifies email and password and issues a token pair. Unknown
// identities and wrong passwords return distinct errors so they can be
// counted, but both carry the same public message.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cred, err := s.repo.FindCredential(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrIdentityNotFound) {
			return nil, internal.ErrIdentityNotFound
		}
		s.logger.ErrorContext(ctx, "credential lookup failed", "error", err)
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	if !VerifyPassword(dto.Password, cred.PasswordHash) {
		return nil, internal.ErrInvalidCredential
	}

	tokens, err := s.issue(cred.Identity)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue tokens", err)
	}

	perms, err := s.repo.Permissions(ctx, cred.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "permission load failed after login", "user_id", cred.ID, "error", err)
		perms = []access.Record{}
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", cred.ID, "role", cred.Role)
	return &LoginResult{Tokens: tokens, User: cred.Identity, Permissions: perms}, nil
}

func (s *Service) issue(identity Identity) (AuthTokens, error) {
	signed, claims, err := s.tokens.Generate(identity, AccessToken)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, _, err := s.tokens.Generate(identity, RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{
		AccessToken:  signed,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Refresh rotates a refresh token. The old refresh token is revoked and the
// identity is reloaded so role changes take effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.validate(ctx, refreshToken, RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	identity, err := s.repo.FindIdentity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidToken
		}
		return AuthTokens{}, internal.ErrBackendUnavailable.WithCause(err)
	}

	tokens, err := s.issue(*identity)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue tokens", err)
	}
	s.revoke(ctx, claims)
	return tokens, nil
}

// Logout revokes the presented tokens. An invalid refresh token is ignored.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.validate(ctx, accessToken, AccessToken)
	if err != nil {
		return err
	}
	s.revoke(ctx, claims)

	if refreshToken != "" {
		if rc, err := s.tokens.Validate(refreshToken, RefreshToken); err == nil && rc.UserID == claims.UserID {
			s.revoke(ctx, rc)
		}
	}
	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves an access token into a principal. The identity and
// its permission records are read fresh on every call. A failed permission
// read degrades to no records rather than failing the request.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*internal.Principal, error) {
	claims, err := s.validate(ctx, accessToken, AccessToken)
	if err != nil {
		return nil, err
	}

	identity, err := s.repo.FindIdentity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	perms, err := s.repo.Permissions(ctx, identity.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "permission load failed", "user_id", identity.ID, "error", err)
		perms = []access.Record{}
	}

	return &internal.Principal{
		ID:          identity.ID,
		Email:       identity.Email,
		Role:        identity.Role,
		Permissions: perms,
	}, nil
}

func (s *Service) validate(ctx context.Context, token string, typ TokenType) (*Claims, error) {
	if token == "" {
		return nil, internal.ErrInvalidToken
	}
	claims, err := s.tokens.Validate(token, typ)
	if err != nil {
		return nil, err
	}
	if s.revoker == nil {
		return claims, nil
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// access tokens are short lived; refresh tokens must stay single use
		if typ == AccessToken {
			s.logger.WarnContext(ctx, "revocation lookup failed, accepting access token", "jti", claims.ID, "error", err)
			return claims, nil
		}
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	if revoked {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) revoke(ctx context.Context, claims *Claims) {
	if s.revoker == nil || claims.ExpiresAt == nil {
		return
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.WarnContext(ctx, "token revocation failed", "jti", claims.ID, "error", err)
	}
}

var _ ServiceAPI = (*Service)(nil)
