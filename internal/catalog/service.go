package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/core/common/search"
	catalogDatamodel "github.com/upca/personnel-console/internal/core/datamodel/catalog"
	"github.com/upca/personnel-console/internal/core/events"
)

type Service struct {
	repo   RepositoryAPI
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, events: publisher, logger: logger}
}

func (s *Service) Summaries() []Summary {
	out := make([]Summary, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, Summary{Kind: k, Label: k.Label()})
	}
	return out
}

func kindOf(name string) (Kind, error) {
	k, ok := ParseKind(name)
	if !ok {
		return "", internal.NewValidationFieldError("kind", "unknown catalog "+name, internal.ErrCodeInvalidCatalog)
	}
	return k, nil
}

// List returns the items of a catalog ordered by nombre. Forms ask for
// onlyActive, the configuration screen for everything.
func (s *Service) List(ctx context.Context, kindName string, onlyActive bool, query string) ([]*Item, error) {
	kind, err := kindOf(kindName)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, kind, onlyActive)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	items := make([]*Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, FromDataModel(r))
	}
	return search.Filter(items, query, func(i *Item) []string { return []string{i.Nombre} }), nil
}

func (s *Service) Create(ctx context.Context, actorID, kindName string, dto ItemDTO) (*Item, error) {
	kind, err := kindOf(kindName)
	if err != nil {
		return nil, err
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, kind, dto.Nombre, ""); err != nil {
		return nil, err
	}

	row := &catalogDatamodel.Item{Nombre: dto.Nombre, Activo: dto.active(true)}
	if err := s.repo.Create(ctx, kind, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "catalog item created", "kind", kind, "item_id", row.ID)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordCreated, access.Configuracion.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actorID, kindName, id string, dto ItemDTO) (*Item, error) {
	kind, err := kindOf(kindName)
	if err != nil {
		return nil, err
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, kind, dto.Nombre, id); err != nil {
		return nil, err
	}

	row.Nombre = dto.Nombre
	row.Activo = dto.active(row.Activo)
	if err := s.repo.Update(ctx, kind, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordUpdated, access.Configuracion.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

// Toggle flips the active flag of one item.
func (s *Service) Toggle(ctx context.Context, actorID, kindName, id string) (*Item, error) {
	kind, err := kindOf(kindName)
	if err != nil {
		return nil, err
	}
	row, err := s.find(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	row.Activo = !row.Activo
	if err := s.repo.Update(ctx, kind, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "catalog item toggled", "kind", kind, "item_id", id, "activo", row.Activo)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordUpdated, access.Configuracion.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, actorID, kindName, id string) error {
	kind, err := kindOf(kindName)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, kind, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}

	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordDeleted, access.Configuracion.String(), id, actorID)
	return nil
}

func (s *Service) find(ctx context.Context, kind Kind, id string) (*catalogDatamodel.Item, error) {
	row, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	if row == nil {
		return nil, internal.ErrCatalogNotFound
	}
	return row, nil
}

func (s *Service) ensureNameFree(ctx context.Context, kind Kind, nombre, selfID string) error {
	existing, err := s.repo.GetByName(ctx, kind, nombre)
	if err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}
	if existing != nil && existing.ID != selfID && strings.EqualFold(existing.Nombre, nombre) {
		return internal.ErrCatalogNameTaken
	}
	return nil
}
