package incapacidad_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/incapacidad"
	"github.com/upca/personnel-console/internal/transport"
)

var _ = Describe("Handler behind the route guard", func() {
	var (
		router    chi.Router
		principal *internal.Principal
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), principal))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	body := `{"numero_id":"77","nombre_completo":"Luis","fecha_inicio":"2024-05-02","fecha_fin":"2024-05-02","diagnostico":"Migraña","tipo_incapacidad":"General","observacion":""}`

	BeforeEach(func() {
		h := &incapacidad.Handler{
			BaseHandler: &transport.BaseHandler{Logger: quietLogger},
			Service:     incapacidad.NewService(newMockRepository(), nil, quietLogger),
		}
		guard := auth.NewRBACAuthorization(quietLogger)

		router = chi.NewRouter()
		router.Route("/incapacidades", func(r chi.Router) {
			r.With(guard.RequirePermission(access.Incapacidades, access.Read)).Get("/", h.List)
			r.With(guard.RequirePermission(access.Incapacidades, access.Create)).Post("/", h.Create)
			r.With(guard.RequirePermission(access.Incapacidades, access.Read)).Get("/{id}", h.Get)
			r.With(guard.RequirePermission(access.Incapacidades, access.Update)).Put("/{id}", h.Update)
			r.With(guard.RequirePermission(access.Incapacidades, access.Delete)).Delete("/{id}", h.Delete)
		})

		principal = &internal.Principal{
			ID:   "u-7",
			Role: access.RoleUser,
			Permissions: []access.Record{
				{Module: access.Incapacidades, Grants: access.Grants{Create: true, Read: true}},
			},
		}
	})

	It("lets a Usuario with create and read do exactly that", func() {
		rec := do(http.MethodPost, "/incapacidades/", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var created incapacidad.Incapacidad
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.DiasIncapacidad).To(Equal(1))
		Expect(created.CreatedBy).To(Equal("u-7"))

		Expect(do(http.MethodGet, "/incapacidades/"+created.ID, "").Code).To(Equal(http.StatusOK))

		rec = do(http.MethodDelete, "/incapacidades/"+created.ID, "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		var denied map[string]map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &denied)).To(Succeed())
		Expect(denied["error"]["code"]).To(Equal(string(internal.ErrCodeAccessDenied)))

		Expect(do(http.MethodPut, "/incapacidades/"+created.ID, body).Code).To(Equal(http.StatusForbidden))
	})

	It("lets an Admin do everything without records", func() {
		principal = &internal.Principal{ID: "admin", Role: access.RoleAdmin}
		rec := do(http.MethodPost, "/incapacidades/", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var created incapacidad.Incapacidad
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(do(http.MethodDelete, "/incapacidades/"+created.ID, "").Code).To(Equal(http.StatusNoContent))
	})

	It("denies a Usuario with no record for the module", func() {
		principal = &internal.Principal{ID: "u-8", Role: access.RoleUser}
		Expect(do(http.MethodGet, "/incapacidades/", "").Code).To(Equal(http.StatusForbidden))
	})
})
