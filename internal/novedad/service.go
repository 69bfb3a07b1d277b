package novedad

import (
	"context"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/core/common/search"
	novedadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/novedad"
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

// List returns absences newest first, filtered on cedula, nombre or tipo_novedad.
func (s *Service) List(ctx context.Context, query string) ([]*Novedad, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	out := make([]*Novedad, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return search.Filter(out, query, func(n *Novedad) []string {
		return []string{n.Cedula, n.Nombre, n.TipoNovedad}
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Novedad, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) find(ctx context.Context, id string) (*novedadDatamodel.Novedad, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	if row == nil {
		return nil, internal.ErrRecordNotFound
	}
	return row, nil
}

// Create stores a new absence stamped with the acting identity.
func (s *Service) Create(ctx context.Context, actorID string, dto NovedadDTO) (*Novedad, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &novedadDatamodel.Novedad{CreatedBy: &actorID}
	if err := dto.apply(row); err != nil {
		return nil, internal.NewValidationError("invalid date or time", internal.ErrCodeInvalidDate).WithCause(err)
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "novedad created", "novedad_id", row.ID, "horas_ausencia", row.HorasAusencia)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordCreated, access.Novedades.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

// Update rewrites every editable field. created_by keeps the original author.
func (s *Service) Update(ctx context.Context, actorID, id string, dto NovedadDTO) (*Novedad, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.apply(row); err != nil {
		return nil, internal.NewValidationError("invalid date or time", internal.ErrCodeInvalidDate).WithCause(err)
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordUpdated, access.Novedades.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "novedad deleted", "novedad_id", id, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordDeleted, access.Novedades.String(), id, actorID)
	return nil
}
