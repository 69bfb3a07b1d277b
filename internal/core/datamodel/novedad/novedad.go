package novedad

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Novedad struct {
	ID            string    `gorm:"primaryKey;type:uuid"`
	Cedula        string    `gorm:"column:cedula;not null;index"`
	Nombre        string    `gorm:"column:nombre;not null"`
	TipoPlanta    string    `gorm:"column:tipo_planta;not null"`
	FechaInicio   time.Time `gorm:"column:fecha_inicio;type:date;not null"`
	HoraInicio    string    `gorm:"column:hora_inicio;size:5;not null"`
	FechaFin      time.Time `gorm:"column:fecha_fin;type:date;not null"`
	HoraFin       string    `gorm:"column:hora_fin;size:5;not null"`
	HorasAusencia float64   `gorm:"column:horas_ausencia;not null"`
	TipoNovedad   string    `gorm:"column:tipo_novedad;not null"`
	Observacion   *string   `gorm:"column:observacion"`
	CreatedBy     *string   `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Novedad) TableName() string { return "novedades" }

func (n *Novedad) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
