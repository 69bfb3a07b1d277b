package incapacidad

import (
	"context"
	"math"
	"time"

	"github.com/upca/personnel-console/internal/core/common/validation"
	incapacidadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/incapacidad"
)

// Incapacidad is a medical leave. Both dates are inclusive.
type Incapacidad struct {
	ID              string    `json:"id"`
	NumeroID        string    `json:"numero_id"`
	NombreCompleto  string    `json:"nombre_completo"`
	FechaInicio     string    `json:"fecha_inicio"`
	FechaFin        string    `json:"fecha_fin"`
	DiasIncapacidad int       `json:"dias_incapacidad"`
	Diagnostico     string    `json:"diagnostico"`
	TipoIncapacidad string    `json:"tipo_incapacidad"`
	Observacion     *string   `json:"observacion"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]*incapacidadDatamodel.Incapacidad, error)
	GetByID(ctx context.Context, id string) (*incapacidadDatamodel.Incapacidad, error)
	Create(ctx context.Context, i *incapacidadDatamodel.Incapacidad) error
	Update(ctx context.Context, i *incapacidadDatamodel.Incapacidad) error
	Delete(ctx context.Context, id string) error
}

// CalculateDays counts the calendar days of a leave, start and end included.
// An end before the start yields zero.
func CalculateDays(start, end time.Time) int {
	days := math.Ceil(end.Sub(start).Hours()/24) + 1
	return int(max(0, days))
}

func FromDataModel(i *incapacidadDatamodel.Incapacidad) *Incapacidad {
	return &Incapacidad{
		ID:              i.ID,
		NumeroID:        i.NumeroID,
		NombreCompleto:  i.NombreCompleto,
		FechaInicio:     i.FechaInicio.Format(validation.DateLayout),
		FechaFin:        i.FechaFin.Format(validation.DateLayout),
		DiasIncapacidad: i.DiasIncapacidad,
		Diagnostico:     i.Diagnostico,
		TipoIncapacidad: i.TipoIncapacidad,
		Observacion:     i.Observacion,
		CreatedBy:       deref(i.CreatedBy),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
