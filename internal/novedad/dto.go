package novedad

import (
	"strings"
	"time"

	apperrors "github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/common/validation"
	novedadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/novedad"
)

// NovedadDTO is the body of both create and update requests. Hours are
// always computed, never accepted from the caller.
type NovedadDTO struct {
	Cedula      string `json:"cedula" validate:"required,max=20"`
	Nombre      string `json:"nombre" validate:"required,max=200"`
	TipoPlanta  string `json:"tipo_planta" validate:"required,oneof=Docente Administrativo Aprendiz"`
	FechaInicio string `json:"fecha_inicio" validate:"required"`
	HoraInicio  string `json:"hora_inicio" validate:"required"`
	FechaFin    string `json:"fecha_fin" validate:"required"`
	HoraFin     string `json:"hora_fin" validate:"required"`
	TipoNovedad string `json:"tipo_novedad" validate:"required,max=200"`
	Observacion string `json:"observacion" validate:"max=2000"`
}

func (d *NovedadDTO) Normalize() {
	d.Cedula = strings.TrimSpace(d.Cedula)
	d.Nombre = strings.TrimSpace(d.Nombre)
	d.TipoNovedad = strings.TrimSpace(d.TipoNovedad)
	d.Observacion = strings.TrimSpace(d.Observacion)
}

func (d NovedadDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("fecha_inicio", d.FechaInicio).Layout(validation.DateLayout)
	v.Field("hora_inicio", d.HoraInicio).Layout(validation.TimeLayout)
	v.Field("fecha_fin", d.FechaFin).Layout(validation.DateLayout)
	v.Field("hora_fin", d.HoraFin).Layout(validation.TimeLayout)
	return validation.Merge(validation.Struct(d), v.Validate())
}

// apply copies the validated fields onto row and recomputes the hours.
func (d NovedadDTO) apply(row *novedadDatamodel.Novedad) error {
	start, err := time.Parse(validation.DateLayout, d.FechaInicio)
	if err != nil {
		return err
	}
	end, err := time.Parse(validation.DateLayout, d.FechaFin)
	if err != nil {
		return err
	}
	hours, err := CalculateHours(d.FechaInicio, d.HoraInicio, d.FechaFin, d.HoraFin)
	if err != nil {
		return err
	}

	row.Cedula = d.Cedula
	row.Nombre = d.Nombre
	row.TipoPlanta = d.TipoPlanta
	row.FechaInicio = start
	row.HoraInicio = d.HoraInicio
	row.FechaFin = end
	row.HoraFin = d.HoraFin
	row.HorasAusencia = hours
	row.TipoNovedad = d.TipoNovedad
	row.Observacion = nil
	if d.Observacion != "" {
		obs := d.Observacion
		row.Observacion = &obs
	}
	return nil
}
