package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
	userDatamodel "github.com/upca/personnel-console/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// FindCredential looks the identity up by exact email.
func (r *Repository) FindCredential(ctx context.Context, email string) (*auth.Credential, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}

	identity, err := toIdentity(&u)
	if err != nil {
		return nil, err
	}
	return &auth.Credential{Identity: *identity, PasswordHash: u.PasswordHash}, nil
}

func (r *Repository) FindIdentity(ctx context.Context, id string) (*auth.Identity, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return toIdentity(&u)
}

// Permissions returns the permission records of userID. Rows naming a module
// this build does not know are skipped.
func (r *Repository) Permissions(ctx context.Context, userID string) ([]access.Record, error) {
	var rows []userDatamodel.UserPermission
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	records := make([]access.Record, 0, len(rows))
	for _, row := range rows {
		module, err := access.ParseModule(row.Module)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping permission row with unknown module", "user_id", userID, "module", row.Module)
			continue
		}
		records = append(records, access.Record{
			Module: module,
			Grants: access.Grants{
				Create: row.CanCreate,
				Read:   row.CanRead,
				Update: row.CanUpdate,
				Delete: row.CanDelete,
			},
		})
	}
	return records, nil
}

func toIdentity(u *userDatamodel.User) (*auth.Identity, error) {
	role, err := access.ParseRole(u.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &auth.Identity{ID: u.ID, Email: u.Email, Role: role}, nil
}

var _ auth.Repository = (*Repository)(nil)
