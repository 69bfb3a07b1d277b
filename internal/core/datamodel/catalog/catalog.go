package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a row of any catalog table. All catalogs share this shape, the
// table is picked per query.
type Item struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Nombre    string    `gorm:"column:nombre;not null"`
	Activo    bool      `gorm:"column:activo;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
