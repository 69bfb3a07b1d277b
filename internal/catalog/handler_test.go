package catalog_test

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
	"github.com/upca/personnel-console/internal/catalog"
	catalogPostgres "github.com/upca/personnel-console/internal/catalog/postgres"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/transport"
)

var _ = Describe("Handler", func() {
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

	BeforeEach(func() {
		service := catalog.NewService(catalogPostgres.NewCatalogRepository(openCatalogDB()), nil, quietLogger)
		h := catalog.NewHandler(&transport.BaseHandler{Logger: quietLogger}, service)
		guard := auth.NewRBACAuthorization(quietLogger)

		router = chi.NewRouter()
		router.Get("/catalogs", h.Kinds)
		router.Get("/catalogs/{kind}", h.List)
		router.Group(func(r chi.Router) {
			r.Use(guard.RequirePermission(access.Configuracion, access.Create))
			r.Post("/catalogs/{kind}", h.Create)
			r.Post("/catalogs/{kind}/{id}/toggle", h.Toggle)
		})
		principal = &internal.Principal{ID: "admin", Role: access.RoleAdmin}
	})

	It("lists the catalog kinds", func() {
		rec := do(http.MethodGet, "/catalogs", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"label":"Antecedentes de Salud"`))
	})

	It("creates an item and toggles it", func() {
		rec := do(http.MethodPost, "/catalogs/diagnosticos", `{"nombre":"Migraña"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var item catalog.Item
		Expect(json.Unmarshal(rec.Body.Bytes(), &item)).To(Succeed())
		Expect(item.Activo).To(BeTrue())

		rec = do(http.MethodPost, "/catalogs/diagnosticos/"+item.ID+"/toggle", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"activo":false`))

		rec = do(http.MethodGet, "/catalogs/diagnosticos?active=true", "")
		Expect(rec.Body.String()).To(ContainSubstring(`"items":[]`))
	})

	It("returns 400 for an unknown kind", func() {
		Expect(do(http.MethodGet, "/catalogs/payroll", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("denies configuration changes to a Usuario", func() {
		principal = &internal.Principal{
			ID:          "u-1",
			Role:        access.RoleUser,
			Permissions: []access.Record{{Module: access.Enfermeria, Grants: access.Grants{Create: true, Read: true}}},
		}
		Expect(do(http.MethodPost, "/catalogs/cargos", `{"nombre":"Vigilante"}`).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/catalogs/cargos?active=true", "").Code).To(Equal(http.StatusOK))
	})
})
