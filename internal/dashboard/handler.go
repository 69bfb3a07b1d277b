package dashboard

import (
	"context"
	"net/http"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/transport"
)

type ServiceAPI interface {
	Summary(ctx context.Context, p *internal.Principal) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// Get handles GET /dashboard
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.Summary(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
