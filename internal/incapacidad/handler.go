package incapacidad

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/upca/personnel-console/internal/core/common/export"
	"github.com/upca/personnel-console/internal/transport"
	"github.com/upca/personnel-console/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, query string) ([]*Incapacidad, error)
	Get(ctx context.Context, id string) (*Incapacidad, error)
	Create(ctx context.Context, actorID string, dto IncapacidadDTO) (*Incapacidad, error)
	Update(ctx context.Context, actorID, id string, dto IncapacidadDTO) (*Incapacidad, error)
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

// List handles GET /incapacidades
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"incapacidades": items})
}

// Export handles GET /incapacidades/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	table := export.Rows[*Incapacidad]{
		Columns: []string{"Número de identificación", "Nombre completo", "Fecha inicio", "Fecha fin", "Días", "Diagnóstico", "Tipo de incapacidad", "Observación"},
		Items:   items,
		Row: func(i *Incapacidad) []string {
			obs := ""
			if i.Observacion != nil {
				obs = *i.Observacion
			}
			return []string{
				i.NumeroID, i.NombreCompleto, i.FechaInicio, i.FechaFin,
				strconv.Itoa(i.DiasIncapacidad),
				i.Diagnostico, i.TipoIncapacidad, obs,
			}
		},
	}
	if err := export.ServeCSV(w, "incapacidades", table); err != nil {
		h.Logger.ErrorContext(r.Context(), "incapacidades export failed", "error", err)
	}
}

// Get handles GET /incapacidades/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// Create handles POST /incapacidades
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto IncapacidadDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	item, err := h.Service.Create(r.Context(), actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

// Update handles PUT /incapacidades/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto IncapacidadDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	item, err := h.Service.Update(r.Context(), actor.ID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /incapacidades/{id}
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
