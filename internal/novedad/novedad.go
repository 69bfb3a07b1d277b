package novedad

import (
	"context"
	"time"

	"github.com/upca/personnel-console/internal/core/common/validation"
	novedadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/novedad"
)

// TiposPlanta is the closed set of staff types an absence can be filed under.
var TiposPlanta = []string{"Docente", "Administrativo", "Aprendiz"}

// Novedad is an absence of a staff member between two moments.
type Novedad struct {
	ID            string    `json:"id"`
	Cedula        string    `json:"cedula"`
	Nombre        string    `json:"nombre"`
	TipoPlanta    string    `json:"tipo_planta"`
	FechaInicio   string    `json:"fecha_inicio"`
	HoraInicio    string    `json:"hora_inicio"`
	FechaFin      string    `json:"fecha_fin"`
	HoraFin       string    `json:"hora_fin"`
	HorasAusencia float64   `json:"horas_ausencia"`
	TipoNovedad   string    `json:"tipo_novedad"`
	Observacion   *string   `json:"observacion"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]*novedadDatamodel.Novedad, error)
	GetByID(ctx context.Context, id string) (*novedadDatamodel.Novedad, error)
	Create(ctx context.Context, n *novedadDatamodel.Novedad) error
	Update(ctx context.Context, n *novedadDatamodel.Novedad) error
	Delete(ctx context.Context, id string) error
}

// CalculateHours returns the hours between two date/clock pairs, never
// less than zero.
func CalculateHours(fechaInicio, horaInicio, fechaFin, horaFin string) (float64, error) {
	start, err := moment(fechaInicio, horaInicio)
	if err != nil {
		return 0, err
	}
	end, err := moment(fechaFin, horaFin)
	if err != nil {
		return 0, err
	}
	return max(0, end.Sub(start).Hours()), nil
}

func moment(date, clock string) (time.Time, error) {
	return time.Parse(validation.DateLayout+" "+validation.TimeLayout, date+" "+clock)
}

func FromDataModel(n *novedadDatamodel.Novedad) *Novedad {
	return &Novedad{
		ID:            n.ID,
		Cedula:        n.Cedula,
		Nombre:        n.Nombre,
		TipoPlanta:    n.TipoPlanta,
		FechaInicio:   n.FechaInicio.Format(validation.DateLayout),
		HoraInicio:    n.HoraInicio,
		FechaFin:      n.FechaFin.Format(validation.DateLayout),
		HoraFin:       n.HoraFin,
		HorasAusencia: n.HorasAusencia,
		TipoNovedad:   n.TipoNovedad,
		Observacion:   n.Observacion,
		CreatedBy:     deref(n.CreatedBy),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
