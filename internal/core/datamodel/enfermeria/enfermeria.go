package enfermeria

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Atencion is one visit to the nursing office.
type Atencion struct {
	ID                string    `gorm:"primaryKey;type:uuid"`
	Cedula            string    `gorm:"column:cedula;not null;index"`
	Nombre            string    `gorm:"column:nombre;not null"`
	Cargo             string    `gorm:"column:cargo;not null"`
	Dependencia       string    `gorm:"column:dependencia;not null"`
	Sintomas          string    `gorm:"column:sintomas;not null"`
	AntecedentesSalud *string   `gorm:"column:antecedentes_salud"`
	Observaciones     *string   `gorm:"column:observaciones"`
	CreatedBy         *string   `gorm:"column:created_by;type:uuid"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Atencion) TableName() string { return "enfermeria" }

func (a *Atencion) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
