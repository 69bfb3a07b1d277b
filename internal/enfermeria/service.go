package enfermeria

import (
	"context"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/core/common/search"
	enfermeriaDatamodel "github.com/upca/personnel-console/internal/core/datamodel/enfermeria"
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

// List returns visits newest first, filtered on nombre, cargo, dependencia or sintomas.
func (s *Service) List(ctx context.Context, query string) ([]*Atencion, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	out := make([]*Atencion, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return search.Filter(out, query, func(a *Atencion) []string {
		return []string{a.Nombre, a.Cargo, a.Dependencia, a.Sintomas}
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Atencion, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) find(ctx context.Context, id string) (*enfermeriaDatamodel.Atencion, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	if row == nil {
		return nil, internal.ErrRecordNotFound
	}
	return row, nil
}

func (s *Service) Create(ctx context.Context, actorID string, dto AtencionDTO) (*Atencion, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &enfermeriaDatamodel.Atencion{CreatedBy: &actorID}
	dto.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "atencion created", "atencion_id", row.ID)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordCreated, access.Enfermeria.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, dto AtencionDTO) (*Atencion, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto.apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordUpdated, access.Enfermeria.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "atencion deleted", "atencion_id", id, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordDeleted, access.Enfermeria.String(), id, actorID)
	return nil
}
