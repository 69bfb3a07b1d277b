package user

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/upca/personnel-console/internal/core/common/export"
	"github.com/upca/personnel-console/internal/transport"
	"github.com/upca/personnel-console/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, query string) ([]*User, error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, actorID string, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, actorID, id string, dto UpdateUserDTO) (*User, error)
	Delete(ctx context.Context, actorID, id string) error
	Permissions(ctx context.Context, id string) (PermissionMatrix, error)
	ReplacePermissions(ctx context.Context, actorID, id string, dto ReplacePermissionsDTO) (PermissionMatrix, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Export handles GET /users/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	table := export.Rows[*User]{
		Columns: []string{"Email", "Rol", "Fecha de creación"},
		Items:   users,
		Row: func(u *User) []string {
			return []string{u.Email, string(u.Role), u.CreatedAt.Format(time.DateTime)}
		},
	}
	if err := export.ServeCSV(w, "usuarios", table); err != nil {
		h.Logger.ErrorContext(r.Context(), "users export failed", "error", err)
	}
}

// Get handles GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// Create handles POST /users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	u, err := h.Service.Create(r.Context(), actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u)
}

// Update handles PUT /users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	u, err := h.Service.Update(r.Context(), actor.ID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor.ID, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPermissions handles GET /users/{id}/permissions
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.Permissions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

// ReplacePermissions handles PUT /users/{id}/permissions
func (h *Handler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto ReplacePermissionsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	m, err := h.Service.ReplacePermissions(r.Context(), actor.ID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}
