package enfermeria

import (
	"strings"

	apperrors "github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/common/validation"
	enfermeriaDatamodel "github.com/upca/personnel-console/internal/core/datamodel/enfermeria"
)

type AtencionDTO struct {
	Cedula            string `json:"cedula" validate:"required,max=20"`
	Nombre            string `json:"nombre" validate:"required,max=200"`
	Cargo             string `json:"cargo" validate:"required,max=200"`
	Dependencia       string `json:"dependencia" validate:"required,max=200"`
	Sintomas          string `json:"sintomas" validate:"required,max=500"`
	AntecedentesSalud string `json:"antecedentes_salud" validate:"max=500"`
	Observaciones     string `json:"observaciones" validate:"max=2000"`
}

func (d *AtencionDTO) Normalize() {
	for _, f := range []*string{&d.Cedula, &d.Nombre, &d.Cargo, &d.Dependencia, &d.Sintomas, &d.AntecedentesSalud, &d.Observaciones} {
		*f = strings.TrimSpace(*f)
	}
}

func (d AtencionDTO) Validate() *apperrors.AppError {
	return validation.Struct(d)
}

func (d AtencionDTO) apply(row *enfermeriaDatamodel.Atencion) {
	row.Cedula = d.Cedula
	row.Nombre = d.Nombre
	row.Cargo = d.Cargo
	row.Dependencia = d.Dependencia
	row.Sintomas = d.Sintomas
	row.AntecedentesSalud = optional(d.AntecedentesSalud)
	row.Observaciones = optional(d.Observaciones)
}
