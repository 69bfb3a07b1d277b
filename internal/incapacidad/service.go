package incapacidad

import (
	"context"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/core/common/search"
	incapacidadDatamodel "github.com/upca/personnel-console/internal/core/datamodel/incapacidad"
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

func (s *Service) List(ctx context.Context, query string) ([]*Incapacidad, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	out := make([]*Incapacidad, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return search.Filter(out, query, func(i *Incapacidad) []string {
		return []string{i.NumeroID, i.NombreCompleto, i.Diagnostico, i.TipoIncapacidad}
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Incapacidad, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) find(ctx context.Context, id string) (*incapacidadDatamodel.Incapacidad, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	if row == nil {
		return nil, internal.ErrRecordNotFound
	}
	return row, nil
}

func (s *Service) Create(ctx context.Context, actorID string, dto IncapacidadDTO) (*Incapacidad, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &incapacidadDatamodel.Incapacidad{CreatedBy: &actorID}
	if err := dto.apply(row); err != nil {
		return nil, internal.NewValidationError("invalid date", internal.ErrCodeInvalidDate).WithCause(err)
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "incapacidad created", "incapacidad_id", row.ID, "dias", row.DiasIncapacidad)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordCreated, access.Incapacidades.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, dto IncapacidadDTO) (*Incapacidad, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.apply(row); err != nil {
		return nil, internal.NewValidationError("invalid date", internal.ErrCodeInvalidDate).WithCause(err)
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordUpdated, access.Incapacidades.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "incapacidad deleted", "incapacidad_id", id, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordDeleted, access.Incapacidades.String(), id, actorID)
	return nil
}
