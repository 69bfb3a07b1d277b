package enfermeria_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal"
	enfermeriaDatamodel "github.com/upca/personnel-console/internal/core/datamodel/enfermeria"
	"github.com/upca/personnel-console/internal/enfermeria"
	enfermeriaPostgres "github.com/upca/personnel-console/internal/enfermeria/postgres"
	"github.com/upca/personnel-console/internal/transport"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Enfermeria", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *enfermeria.Service
	)

	dto := func() enfermeria.AtencionDTO {
		return enfermeria.AtencionDTO{
			Cedula:      "1012345678",
			Nombre:      "Carlos Núñez",
			Cargo:       "Docente",
			Dependencia: "Ingeniería",
			Sintomas:    "Dolor de cabeza",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
		DeferCleanup(sqlDB.Close)
		Expect(db.AutoMigrate(&enfermeriaDatamodel.Atencion{})).To(Succeed())
		service = enfermeria.NewService(enfermeriaPostgres.NewEnfermeriaRepository(db), nil, quietLogger)
	})

	Describe("Service", func() {
		It("stores optional fields as null when blank", func() {
			a, err := service.Create(ctx, "nurse", dto())
			Expect(err).NotTo(HaveOccurred())
			Expect(a.AntecedentesSalud).To(BeNil())
			Expect(a.Observaciones).To(BeNil())
			Expect(a.CreatedBy).To(Equal("nurse"))

			var count int64
			db.Model(&enfermeriaDatamodel.Atencion{}).Where("antecedentes_salud IS NULL").Count(&count)
			Expect(count).To(Equal(int64(1)))
		})

		It("requires the symptoms", func() {
			d := dto()
			d.Sintomas = "   "
			_, err := service.Create(ctx, "nurse", d)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring("sintomas is required"))
		})

		It("updates a visit without changing its author", func() {
			a, _ := service.Create(ctx, "nurse", dto())
			d := dto()
			d.Observaciones = "Reposo"
			updated, err := service.Update(ctx, "other", a.ID, d)
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.Observaciones).To(Equal("Reposo"))

			reloaded, err := service.Get(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.CreatedBy).To(Equal("nurse"))
			Expect(*reloaded.Observaciones).To(Equal("Reposo"))
		})

		It("filters by dependencia ignoring accents", func() {
			_, _ = service.Create(ctx, "nurse", dto())
			found, err := service.List(ctx, "ingenieria")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
		})

		It("deletes visits", func() {
			a, _ := service.Create(ctx, "nurse", dto())
			Expect(service.Delete(ctx, "nurse", a.ID)).To(Succeed())
			Expect(service.Delete(ctx, "nurse", a.ID)).To(MatchError(internal.ErrRecordNotFound))
		})
	})

	Describe("Handler", func() {
		It("exports visits as CSV", func() {
			_, _ = service.Create(ctx, "nurse", dto())
			h := &enfermeria.Handler{BaseHandler: &transport.BaseHandler{Logger: quietLogger}, Service: service}
			router := chi.NewRouter()
			router.Get("/enfermeria/export", h.Export)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/enfermeria/export", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Disposition")).To(MatchRegexp(`enfermeria_\d{4}-\d{2}-\d{2}\.csv`))
			Expect(rec.Body.String()).To(ContainSubstring("1012345678,Carlos Núñez,Docente,Ingeniería,Dolor de cabeza,,,"))
		})

		It("rejects an empty body on create", func() {
			h := &enfermeria.Handler{BaseHandler: &transport.BaseHandler{Logger: quietLogger}, Service: service}
			req := httptest.NewRequest(http.MethodPost, "/enfermeria", strings.NewReader(""))
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), &internal.Principal{ID: "nurse"}))
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
