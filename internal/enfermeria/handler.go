package enfermeria

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
	List(ctx context.Context, query string) ([]*Atencion, error)
	Get(ctx context.Context, id string) (*Atencion, error)
	Create(ctx context.Context, actorID string, dto AtencionDTO) (*Atencion, error)
	Update(ctx context.Context, actorID, id string, dto AtencionDTO) (*Atencion, error)
	Delete(ctx context.Context, actorID, id string) error
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

// List handles GET /enfermeria
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"atenciones": items})
}

// Export handles GET /enfermeria/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	table := export.Rows[*Atencion]{
		Columns: []string{"Cédula", "Nombre", "Cargo", "Dependencia", "Síntomas", "Antecedentes de salud", "Observaciones", "Fecha"},
		Items:   items,
		Row: func(a *Atencion) []string {
			return []string{
				a.Cedula, a.Nombre, a.Cargo, a.Dependencia, a.Sintomas,
				deref(a.AntecedentesSalud), deref(a.Observaciones),
				a.CreatedAt.Format(time.DateTime),
			}
		},
	}
	if err := export.ServeCSV(w, "enfermeria", table); err != nil {
		h.Logger.ErrorContext(r.Context(), "enfermeria export failed", "error", err)
	}
}

// Get handles GET /enfermeria/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// Create handles POST /enfermeria
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto AtencionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	a, err := h.Service.Create(r.Context(), actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

// Update handles PUT /enfermeria/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto AtencionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	a, err := h.Service.Update(r.Context(), actor.ID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /enfermeria/{id}
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
