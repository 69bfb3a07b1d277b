package incapacidad

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Incapacidad struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	NumeroID        string    `gorm:"column:numero_id;not null;index"`
	NombreCompleto  string    `gorm:"column:nombre_completo;not null"`
	FechaInicio     time.Time `gorm:"column:fecha_inicio;type:date;not null"`
	FechaFin        time.Time `gorm:"column:fecha_fin;type:date;not null"`
	DiasIncapacidad int       `gorm:"column:dias_incapacidad;not null"`
	Diagnostico     string    `gorm:"column:diagnostico;not null"`
	TipoIncapacidad string    `gorm:"column:tipo_incapacidad;not null"`
	Observacion     *string   `gorm:"column:observacion"`
	CreatedBy       *string   `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Incapacidad) TableName() string { return "incapacidades" }

func (i *Incapacidad) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
