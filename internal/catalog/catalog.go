package catalog

import (
	"context"
	"time"

	catalogDatamodel "github.com/upca/personnel-console/internal/core/datamodel/catalog"
)

// Kind names one catalog. Each kind lives in its own table of the same name.
type Kind string

const (
	TiposNovedad      Kind = "tipos_novedad"
	Diagnosticos      Kind = "diagnosticos"
	TiposIncapacidad  Kind = "tipos_incapacidad"
	Cargos            Kind = "cargos"
	Dependencias      Kind = "dependencias"
	Sintomas          Kind = "sintomas"
	AntecedentesSalud Kind = "antecedentes_salud"
)

// Kinds is every catalog in display order.
var Kinds = []Kind{TiposNovedad, Diagnosticos, TiposIncapacidad, Cargos, Dependencias, Sintomas, AntecedentesSalud}

var labels = map[Kind]string{
	TiposNovedad:      "Tipos de Novedad",
	Diagnosticos:      "Diagnósticos",
	TiposIncapacidad:  "Tipos de Incapacidad",
	Cargos:            "Cargos",
	Dependencias:      "Dependencias",
	Sintomas:          "Síntomas",
	AntecedentesSalud: "Antecedentes de Salud",
}

// ParseKind accepts only the known catalog names, so a Kind is always safe
// to use as a table name.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := labels[k]
	return k, ok
}

func (k Kind) Table() string { return string(k) }

func (k Kind) Label() string { return labels[k] }

type Item struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary describes a catalog for the configuration screen.
type Summary struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

type RepositoryAPI interface {
	List(ctx context.Context, kind Kind, onlyActive bool) ([]*catalogDatamodel.Item, error)
	GetByID(ctx context.Context, kind Kind, id string) (*catalogDatamodel.Item, error)
	GetByName(ctx context.Context, kind Kind, nombre string) (*catalogDatamodel.Item, error)
	Create(ctx context.Context, kind Kind, item *catalogDatamodel.Item) error
	Update(ctx context.Context, kind Kind, item *catalogDatamodel.Item) error
	Delete(ctx context.Context, kind Kind, id string) error
}

func FromDataModel(i *catalogDatamodel.Item) *Item {
	return &Item{ID: i.ID, Nombre: i.Nombre, Activo: i.Activo, CreatedAt: i.CreatedAt}
}
