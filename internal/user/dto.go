package user

import (
	"strings"

	apperrors "github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=Admin Usuario"`
}

func (d *CreateUserDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d CreateUserDTO) Validate() *apperrors.AppError {
	return validation.Struct(d)
}

// UpdateUserDTO leaves the credential untouched when Password is empty.
type UpdateUserDTO struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=Admin Usuario"`
}

func (d *UpdateUserDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d UpdateUserDTO) Validate() *apperrors.AppError {
	return validation.Struct(d)
}

// ReplacePermissionsDTO is the full set of records for one user. Modules
// left out are stored as all false.
type ReplacePermissionsDTO struct {
	Permissions []access.Record `json:"permissions"`
}

func (d ReplacePermissionsDTO) Validate() *apperrors.AppError {
	seen := make(map[access.Module]bool, len(d.Permissions))
	for _, r := range d.Permissions {
		if !r.Module.Assignable() {
			return apperrors.NewValidationFieldError("permissions", "module "+r.Module.String()+" cannot be assigned", apperrors.ErrCodeInvalidModule)
		}
		if seen[r.Module] {
			return apperrors.NewValidationFieldError("permissions", "module "+r.Module.String()+" appears more than once", apperrors.ErrCodeInvalidModule)
		}
		seen[r.Module] = true
	}
	return nil
}

// Complete returns one record per assignable module, filling gaps with all-false records.
func (d ReplacePermissionsDTO) Complete() []access.Record {
	out := make([]access.Record, 0, len(access.AssignableModules))
	for _, m := range access.AssignableModules {
		out = append(out, access.Find(d.Permissions, m))
	}
	return out
}
