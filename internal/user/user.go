package user

import (
	"context"
	"time"

	"github.com/upca/personnel-console/internal/core/access"
	userDatamodel "github.com/upca/personnel-console/internal/core/datamodel/user"
)

// User is an identity as administrators see it. The hash never leaves the
// repository layer.
type User struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      access.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id string) error
	Permissions(ctx context.Context, userID string) ([]*userDatamodel.UserPermission, error)
	// ReplacePermissions deletes every row of userID and inserts rows in one transaction.
	ReplacePermissions(ctx context.Context, userID string, rows []*userDatamodel.UserPermission) error
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      access.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PermissionMatrix is the editor view: one entry per assignable module, in
// display order, with absent rows reported as all false.
type PermissionMatrix struct {
	UserID      string          `json:"user_id"`
	Permissions []access.Record `json:"permissions"`
}

func matrixFromRows(userID string, rows []*userDatamodel.UserPermission) PermissionMatrix {
	byModule := make(map[string]*userDatamodel.UserPermission, len(rows))
	for _, r := range rows {
		byModule[r.Module] = r
	}

	out := PermissionMatrix{UserID: userID, Permissions: make([]access.Record, 0, len(access.AssignableModules))}
	for _, m := range access.AssignableModules {
		rec := access.Record{Module: m}
		if r, ok := byModule[m.String()]; ok {
			rec.Grants = access.Grants{Create: r.CanCreate, Read: r.CanRead, Update: r.CanUpdate, Delete: r.CanDelete}
		}
		out.Permissions = append(out.Permissions, rec)
	}
	return out
}

func rowsFromRecords(userID string, records []access.Record) []*userDatamodel.UserPermission {
	rows := make([]*userDatamodel.UserPermission, 0, len(records))
	for _, r := range records {
		rows = append(rows, &userDatamodel.UserPermission{
			UserID:    userID,
			Module:    r.Module.String(),
			CanCreate: r.Create,
			CanRead:   r.Read,
			CanUpdate: r.Update,
			CanDelete: r.Delete,
		})
	}
	return rows
}
