package catalog

import (
	"strings"

	apperrors "github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/common/validation"
)

// ItemDTO creates or edits an item. A missing activo means active on create
// and unchanged on edit.
type ItemDTO struct {
	Nombre string `json:"nombre" validate:"required,max=200"`
	Activo *bool  `json:"activo"`
}

func (d *ItemDTO) Normalize() {
	d.Nombre = strings.TrimSpace(d.Nombre)
}

func (d ItemDTO) Validate() *apperrors.AppError {
	return validation.Struct(d)
}

func (d ItemDTO) active(current bool) bool {
	if d.Activo == nil {
		return current
	}
	return *d.Activo
}
