package auth

import (
	"strings"

	apperrors "github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

func (d *LoginDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d LoginDTO) Validate() *apperrors.AppError {
	return validation.Struct(d)
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (d RefreshTokenDTO) Validate() *apperrors.AppError {
	return validation.Struct(d)
}

// LogoutDTO optionally carries the refresh token so it is revoked together
// with the access token.
type LogoutDTO struct {
	RefreshToken string `json:"refresh_token"`
}
