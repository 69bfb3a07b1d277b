package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	incapacidadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/incapacidad"
	"github.com/upca/personnel-console/internal/incapacidad"
	"gorm.io/gorm"
)

type IncapacidadRepository struct {
	db *gorm.DB
}

func NewIncapacidadRepository(db *gorm.DB) incapacidad.RepositoryAPI {
	return &IncapacidadRepository{db: db}
}

func (r *IncapacidadRepository) List(ctx context.Context) ([]*incapacidadDatamodel.Incapacidad, error) {
	var rows []*incapacidadDatamodel.Incapacidad
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *IncapacidadRepository) GetByID(ctx context.Context, id string) (*incapacidadDatamodel.Incapacidad, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	var i incapacidadDatamodel.Incapacidad
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *IncapacidadRepository) Create(ctx context.Context, i *incapacidadDatamodel.Incapacidad) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *IncapacidadRepository) Update(ctx context.Context, i *incapacidadDatamodel.Incapacidad) error {
	return r.db.WithContext(ctx).Model(i).Select("*").Omit("id", "created_by", "created_at").Updates(i).Error
}

func (r *IncapacidadRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&incapacidadDatamodel.Incapacidad{}).Error
}
