package auth

import (
	"errors"
	"net/http"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/observability"
	"github.com/upca/personnel-console/internal/transport"
	"github.com/upca/personnel-console/pkg/logger"
)

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

// genericLoginFailure hides whether the email or the password was wrong.
var genericLoginFailure = internal.NewUnauthorizedError("Invalid email or password", internal.ErrCodeInvalidCredential)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		observability.RecordLogin(observability.LoginRejected)
		h.WriteAppError(w, err)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, internal.ErrIdentityNotFound):
			observability.RecordLogin(observability.LoginIdentityNotFound)
			h.WriteAppError(w, genericLoginFailure)
		case errors.Is(err, internal.ErrInvalidCredential):
			observability.RecordLogin(observability.LoginInvalidCredential)
			h.WriteAppError(w, genericLoginFailure)
		case errors.Is(err, internal.ErrBackendUnavailable):
			observability.RecordLogin(observability.LoginBackendUnavailable)
			h.HandleServiceError(w, err)
		default:
			observability.RecordLogin(observability.LoginRejected)
			h.HandleServiceError(w, err)
		}
		return
	}

	observability.RecordLogin(observability.LoginSuccess)
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	tokens, err := h.Service.Refresh(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	var dto LogoutDTO
	if r.ContentLength > 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.WriteAppError(w, err)
			return
		}
	}

	if err := h.Service.Logout(r.Context(), token, dto.RefreshToken); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session returns the caller's identity and freshly loaded permission records.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// AuthMiddleware resolves the bearer token into a principal and stores it
// in the request context. Identity and permissions are read on every request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		principal, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
