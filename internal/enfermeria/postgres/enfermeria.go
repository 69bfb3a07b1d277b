package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	enfermeriaDatamodel "github.com/upca/personnel-console/internal/core/datamodel/enfermeria"
	"github.com/upca/personnel-console/internal/enfermeria"
	"gorm.io/gorm"
)

type EnfermeriaRepository struct {
	db *gorm.DB
}

func NewEnfermeriaRepository(db *gorm.DB) enfermeria.RepositoryAPI {
	return &EnfermeriaRepository{db: db}
}

func (r *EnfermeriaRepository) List(ctx context.Context) ([]*enfermeriaDatamodel.Atencion, error) {
	var rows []*enfermeriaDatamodel.Atencion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *EnfermeriaRepository) GetByID(ctx context.Context, id string) (*enfermeriaDatamodel.Atencion, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	var a enfermeriaDatamodel.Atencion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *EnfermeriaRepository) Create(ctx context.Context, a *enfermeriaDatamodel.Atencion) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *EnfermeriaRepository) Update(ctx context.Context, a *enfermeriaDatamodel.Atencion) error {
	return r.db.WithContext(ctx).Model(a).Select("*").Omit("id", "created_by", "created_at").Updates(a).Error
}

func (r *EnfermeriaRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&enfermeriaDatamodel.Atencion{}).Error
}
