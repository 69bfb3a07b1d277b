package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upca/personnel-console/internal/catalog"
	catalogDatamodel "github.com/upca/personnel-console/internal/core/datamodel/catalog"
	"gorm.io/gorm"
)

// CatalogRepository serves every catalog kind. Kinds come from
// catalog.ParseKind, so the table name is never caller-controlled text.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) catalog.RepositoryAPI {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) table(ctx context.Context, kind catalog.Kind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.Table())
}

func (r *CatalogRepository) List(ctx context.Context, kind catalog.Kind, onlyActive bool) ([]*catalogDatamodel.Item, error) {
	var items []*catalogDatamodel.Item
	q := r.table(ctx, kind)
	if onlyActive {
		q = q.Where("activo = ?", true)
	}
	err := q.Order("nombre ASC").Find(&items).Error
	return items, err
}

func (r *CatalogRepository) GetByID(ctx context.Context, kind catalog.Kind, id string) (*catalogDatamodel.Item, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	return r.first(ctx, kind, "id = ?", id)
}

func (r *CatalogRepository) GetByName(ctx context.Context, kind catalog.Kind, nombre string) (*catalogDatamodel.Item, error) {
	return r.first(ctx, kind, "LOWER(nombre) = LOWER(?)", nombre)
}

func (r *CatalogRepository) first(ctx context.Context, kind catalog.Kind, query string, arg interface{}) (*catalogDatamodel.Item, error) {
	var item catalogDatamodel.Item
	err := r.table(ctx, kind).Where(query, arg).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *CatalogRepository) Create(ctx context.Context, kind catalog.Kind, item *catalogDatamodel.Item) error {
	return r.table(ctx, kind).Create(item).Error
}

func (r *CatalogRepository) Update(ctx context.Context, kind catalog.Kind, item *catalogDatamodel.Item) error {
	return r.table(ctx, kind).Where("id = ?", item.ID).
		Updates(map[string]interface{}{"nombre": item.Nombre, "activo": item.Activo}).Error
}

func (r *CatalogRepository) Delete(ctx context.Context, kind catalog.Kind, id string) error {
	return r.table(ctx, kind).Where("id = ?", id).Delete(&catalogDatamodel.Item{}).Error
}
