package novedad

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
	List(ctx context.Context, query string) ([]*Novedad, error)
	Get(ctx context.Context, id string) (*Novedad, error)
	Create(ctx context.Context, actorID string, dto NovedadDTO) (*Novedad, error)
	Update(ctx context.Context, actorID, id string, dto NovedadDTO) (*Novedad, error)
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

// List handles GET /novedades
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"novedades": items})
}

// Export handles GET /novedades/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	table := export.Rows[*Novedad]{
		Columns: []string{"Cédula", "Nombre", "Tipo de planta", "Fecha inicio", "Hora inicio", "Fecha fin", "Hora fin", "Horas de ausencia", "Tipo de novedad", "Observación"},
		Items:   items,
		Row: func(n *Novedad) []string {
			obs := ""
			if n.Observacion != nil {
				obs = *n.Observacion
			}
			return []string{
				n.Cedula, n.Nombre, n.TipoPlanta,
				n.FechaInicio, n.HoraInicio, n.FechaFin, n.HoraFin,
				strconv.FormatFloat(n.HorasAusencia, 'f', 1, 64),
				n.TipoNovedad, obs,
			}
		},
	}
	if err := export.ServeCSV(w, "novedades", table); err != nil {
		h.Logger.ErrorContext(r.Context(), "novedades export failed", "error", err)
	}
}

// Get handles GET /novedades/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, n)
}

// Create handles POST /novedades
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto NovedadDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	n, err := h.Service.Create(r.Context(), actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, n)
}

// Update handles PUT /novedades/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto NovedadDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	n, err := h.Service.Update(r.Context(), actor.ID, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /novedades/{id}
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
