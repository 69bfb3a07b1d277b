package incapacidad

import (
	"strings"
	"time"

	apperrors "github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/common/validation"
	incapacidadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/incapacidad"
)

type IncapacidadDTO struct {
	NumeroID        string `json:"numero_id" validate:"required,max=20"`
	NombreCompleto  string `json:"nombre_completo" validate:"required,max=200"`
	FechaInicio     string `json:"fecha_inicio" validate:"required"`
	FechaFin        string `json:"fecha_fin" validate:"required"`
	Diagnostico     string `json:"diagnostico" validate:"required,max=200"`
	TipoIncapacidad string `json:"tipo_incapacidad" validate:"required,max=200"`
	Observacion     string `json:"observacion" validate:"max=2000"`
}

func (d *IncapacidadDTO) Normalize() {
	d.NumeroID = strings.TrimSpace(d.NumeroID)
	d.NombreCompleto = strings.TrimSpace(d.NombreCompleto)
	d.Diagnostico = strings.TrimSpace(d.Diagnostico)
	d.TipoIncapacidad = strings.TrimSpace(d.TipoIncapacidad)
	d.Observacion = strings.TrimSpace(d.Observacion)
}

func (d IncapacidadDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("fecha_inicio", d.FechaInicio).Layout(validation.DateLayout)
	v.Field("fecha_fin", d.FechaFin).Layout(validation.DateLayout)
	return validation.Merge(validation.Struct(d), v.Validate())
}

func (d IncapacidadDTO) apply(row *incapacidadDatamodel.Incapacidad) error {
	start, err := time.Parse(validation.DateLayout, d.FechaInicio)
	if err != nil {
		return err
	}
	end, err := time.Parse(validation.DateLayout, d.FechaFin)
	if err != nil {
		return err
	}

	row.NumeroID = d.NumeroID
	row.NombreCompleto = d.NombreCompleto
	row.FechaInicio = start
	row.FechaFin = end
	row.DiasIncapacidad = CalculateDays(start, end)
	row.Diagnostico = d.Diagnostico
	row.TipoIncapacidad = d.TipoIncapacidad
	row.Observacion = nil
	if d.Observacion != "" {
		obs := d.Observacion
		row.Observacion = &obs
	}
	return nil
}
