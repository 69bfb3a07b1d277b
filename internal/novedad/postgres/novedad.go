package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	novedadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/novedad"
	"github.com/upca/personnel-console/internal/novedad"
	"gorm.io/gorm"
)

type NovedadRepository struct {
	db *gorm.DB
}

func NewNovedadRepository(db *gorm.DB) novedad.RepositoryAPI {
	return &NovedadRepository{db: db}
}

func (r *NovedadRepository) List(ctx context.Context) ([]*novedadDatamodel.Novedad, error) {
	var rows []*novedadDatamodel.Novedad
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *NovedadRepository) GetByID(ctx context.Context, id string) (*novedadDatamodel.Novedad, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	var n novedadDatamodel.Novedad
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *NovedadRepository) Create(ctx context.Context, n *novedadDatamodel.Novedad) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NovedadRepository) Update(ctx context.Context, n *novedadDatamodel.Novedad) error {
	return r.db.WithContext(ctx).Model(n).Select("*").Omit("id", "created_by", "created_at").Updates(n).Error
}

func (r *NovedadRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&novedadDatamodel.Novedad{}).Error
}
