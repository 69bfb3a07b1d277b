package novedad_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/novedad"
	"github.com/upca/personnel-console/internal/transport"
)

var _ = Describe("Handler", func() {
	var (
		router    chi.Router
		principal *internal.Principal
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if principal != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), principal))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	body := `{"cedula":"1012345678","nombre":"Ana","tipo_planta":"Aprendiz","fecha_inicio":"2024-05-02","hora_inicio":"08:00","fecha_fin":"2024-05-02","hora_fin":"09:00","tipo_novedad":"Permiso","observacion":""}`

	BeforeEach(func() {
		h := &novedad.Handler{
			BaseHandler: &transport.BaseHandler{Logger: quietLogger},
			Service:     novedad.NewService(newMockRepository(), nil, quietLogger),
		}
		guard := auth.NewRBACAuthorization(quietLogger)

		router = chi.NewRouter()
		router.With(guard.RequirePermission(access.Novedades, access.Read)).Get("/novedades", h.List)
		router.With(guard.RequirePermission(access.Novedades, access.Read)).Get("/novedades/export", h.Export)
		router.With(guard.RequirePermission(access.Novedades, access.Create)).Post("/novedades", h.Create)
		router.With(guard.RequirePermission(access.Novedades, access.Delete)).Delete("/novedades/{id}", h.Delete)

		principal = &internal.Principal{
			ID:   "u-1",
			Role: access.RoleUser,
			Permissions: []access.Record{
				{Module: access.Novedades, Grants: access.Grants{Create: true, Read: true}},
			},
		}
	})

	It("lets a granted Usuario create and list", func() {
		Expect(do(http.MethodPost, "/novedades", body).Code).To(Equal(http.StatusCreated))
		rec := do(http.MethodGet, "/novedades", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"horas_ausencia":1`))
	})

	It("denies delete without the grant", func() {
		rec := do(http.MethodDelete, "/novedades/n-1", "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeAccessDenied)))
	})

	It("requires authentication", func() {
		principal = nil
		Expect(do(http.MethodGet, "/novedades", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("exports CSV with the computed hours", func() {
		Expect(do(http.MethodPost, "/novedades", body).Code).To(Equal(http.StatusCreated))
		rec := do(http.MethodGet, "/novedades/export", "")
		Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/csv"))
		Expect(rec.Body.String()).To(ContainSubstring("1012345678,Ana,Aprendiz,2024-05-02,08:00,2024-05-02,09:00,1.0,Permiso,"))
	})
})
