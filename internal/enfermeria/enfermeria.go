package enfermeria

import (
	"context"
	"time"

	enfermeriaDatamodel "github.com/upca/personnel-console/internal/core/datamodel/enfermeria"
)

// Atencion is one visit to the nursing office.
type Atencion struct {
	ID                string    `json:"id"`
	Cedula            string    `json:"cedula"`
	Nombre            string    `json:"nombre"`
	Cargo             string    `json:"cargo"`
	Dependencia       string    `json:"dependencia"`
	Sintomas          string    `json:"sintomas"`
	AntecedentesSalud *string   `json:"antecedentes_salud"`
	Observaciones     *string   `json:"observaciones"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]*enfermeriaDatamodel.Atencion, error)
	GetByID(ctx context.Context, id string) (*enfermeriaDatamodel.Atencion, error)
	Create(ctx context.Context, a *enfermeriaDatamodel.Atencion) error
	Update(ctx context.Context, a *enfermeriaDatamodel.Atencion) error
	Delete(ctx context.Context, id string) error
}

func FromDataModel(a *enfermeriaDatamodel.Atencion) *Atencion {
	return &Atencion{
		ID:                a.ID,
		Cedula:            a.Cedula,
		Nombre:            a.Nombre,
		Cargo:             a.Cargo,
		Dependencia:       a.Dependencia,
		Sintomas:          a.Sintomas,
		AntecedentesSalud: a.AntecedentesSalud,
		Observaciones:     a.Observaciones,
		CreatedBy:         deref(a.CreatedBy),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
