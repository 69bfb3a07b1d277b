package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/upca/personnel-console/internal/transport"
)

type ServiceAPI interface {
	Summaries() []Summary
	List(ctx context.Context, kind string, onlyActive bool, query string) ([]*Item, error)
	Create(ctx context.Context, actorID, kind string, dto ItemDTO) (*Item, error)
	Update(ctx context.Context, actorID, kind, id string, dto ItemDTO) (*Item, error)
	Toggle(ctx context.Context, actorID, kind, id string) (*Item, error)
	Delete(ctx context.Context, actorID, kind, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Kinds handles GET /catalogs
func (h *Handler) Kinds(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"catalogs": h.Service.Summaries()})
}

// List handles GET /catalogs/{kind}?active=true&q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	onlyActive, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	items, err := h.Service.List(r.Context(), chi.URLParam(r, "kind"), onlyActive, r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Create handles POST /catalogs/{kind}
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto ItemDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	item, err := h.Service.Create(r.Context(), actor.ID, chi.URLParam(r, "kind"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

// Update handles PUT /catalogs/{kind}/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto ItemDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	item, err := h.Service.Update(r.Context(), actor.ID, chi.URLParam(r, "kind"), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// Toggle handles POST /catalogs/{kind}/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	item, err := h.Service.Toggle(r.Context(), actor.ID, chi.URLParam(r, "kind"), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /catalogs/{kind}/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Principal(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor.ID, chi.URLParam(r, "kind"), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
