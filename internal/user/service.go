package user

import (
	"context"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/core/common/search"
	userDatamodel "github.com/upca/personnel-console/internal/core/datamodel/user"
	"github.com/upca/personnel-console/internal/core/events"
)

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	events     events.Publisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		events:     publisher,
		logger:     logger,
	}
}

// List returns users newest first, filtered by email or role when query is set.
func (s *Service) List(ctx context.Context, query string) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	users := make([]*User, 0, len(rows))
	for _, r := range rows {
		users = append(users, FromDataModel(r))
	}
	return search.Filter(users, query, func(u *User) []string {
		return []string{u.Email, string(u.Role)}
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) find(ctx context.Context, id string) (*userDatamodel.User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return row, nil
}

func (s *Service) Create(ctx context.Context, actorID string, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, dto.Email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{Email: dto.Email, PasswordHash: hash, Role: dto.Role}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", row.ID, "role", row.Role)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordCreated, access.Usuarios.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

// Update changes email and role. The credential is regenerated only when a
// new password is supplied.
func (s *Service) Update(ctx context.Context, actorID, id string, dto UpdateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, dto.Email, id); err != nil {
		return nil, err
	}

	row.Email = dto.Email
	row.Role = dto.Role
	if dto.Password != "" {
		hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordUpdated, access.Usuarios.String(), row.ID, actorID)
	return FromDataModel(row), nil
}

// Delete removes an identity. An actor can never delete itself.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return internal.ErrCannotDeleteSelf
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.EventTypeRecordDeleted, access.Usuarios.String(), id, actorID)
	return nil
}

func (s *Service) Permissions(ctx context.Context, id string) (PermissionMatrix, error) {
	if _, err := s.find(ctx, id); err != nil {
		return PermissionMatrix{}, err
	}
	rows, err := s.repo.Permissions(ctx, id)
	if err != nil {
		return PermissionMatrix{}, internal.ErrBackendUnavailable.WithCause(err)
	}
	return matrixFromRows(id, rows), nil
}

// ReplacePermissions swaps the whole permission set of a user atomically.
func (s *Service) ReplacePermissions(ctx context.Context, actorID, id string, dto ReplacePermissionsDTO) (PermissionMatrix, error) {
	if err := dto.Validate(); err != nil {
		return PermissionMatrix{}, err
	}
	if _, err := s.find(ctx, id); err != nil {
		return PermissionMatrix{}, err
	}

	rows := rowsFromRecords(id, dto.Complete())
	if err := s.repo.ReplacePermissions(ctx, id, rows); err != nil {
		return PermissionMatrix{}, internal.ErrBackendUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "permissions replaced", "user_id", id, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.EventTypePermissionsReplaced, access.Usuarios.String(), id, actorID)
	return matrixFromRows(id, rows), nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return internal.ErrBackendUnavailable.WithCause(err)
	}
	if existing != nil && existing.ID != selfID {
		return internal.ErrEmailTaken
	}
	return nil
}
