package catalog_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/catalog"
	catalogPostgres "github.com/upca/personnel-console/internal/catalog/postgres"
)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		service *catalog.Service
	)

	inactive := false

	BeforeEach(func() {
		ctx = context.Background()
		service = catalog.NewService(catalogPostgres.NewCatalogRepository(openCatalogDB()), nil, quietLogger)
	})

	It("parses only known kinds", func() {
		k, ok := catalog.ParseKind("diagnosticos")
		Expect(ok).To(BeTrue())
		Expect(k.Label()).To(Equal("Diagnósticos"))

		_, ok = catalog.ParseKind("users; DROP TABLE users")
		Expect(ok).To(BeFalse())
	})

	It("rejects unknown kinds before touching storage", func() {
		_, err := service.List(ctx, "payroll", false, "")
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		Expect(appErr.GetDetailedMessage()).To(ContainSubstring("unknown catalog payroll"))
	})

	It("lists by name and filters inactive items for forms", func() {
		_, err := service.Create(ctx, "admin", "cargos", catalog.ItemDTO{Nombre: "Secretaria"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, "admin", "cargos", catalog.ItemDTO{Nombre: "Auxiliar", Activo: &inactive})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, "admin", "cargos", catalog.ItemDTO{Nombre: "Docente"})
		Expect(err).NotTo(HaveOccurred())

		all, err := service.List(ctx, "cargos", false, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect(all[0].Nombre).To(Equal("Auxiliar"))

		active, err := service.List(ctx, "cargos", true, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(HaveLen(2))
		Expect(active[0].Nombre).To(Equal("Docente"))
	})

	It("keeps catalogs apart", func() {
		_, _ = service.Create(ctx, "admin", "sintomas", catalog.ItemDTO{Nombre: "Fiebre"})
		items, err := service.List(ctx, "diagnosticos", false, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(BeEmpty())
	})

	It("refuses duplicate names within a catalog", func() {
		_, err := service.Create(ctx, "admin", "dependencias", catalog.ItemDTO{Nombre: "Rectoría"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, "admin", "dependencias", catalog.ItemDTO{Nombre: "rectoría"})
		Expect(err).To(MatchError(internal.ErrCatalogNameTaken))
	})

	It("toggles the active flag", func() {
		item, _ := service.Create(ctx, "admin", "sintomas", catalog.ItemDTO{Nombre: "Tos"})
		Expect(item.Activo).To(BeTrue())

		toggled, err := service.Toggle(ctx, "admin", "sintomas", item.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(toggled.Activo).To(BeFalse())

		active, _ := service.List(ctx, "sintomas", true, "")
		Expect(active).To(BeEmpty())
	})

	It("keeps a deactivated item inactive when renamed without activo", func() {
		item, _ := service.Create(ctx, "admin", "cargos", catalog.ItemDTO{Nombre: "Celador", Activo: &inactive})

		renamed, err := service.Update(ctx, "admin", "cargos", item.ID, catalog.ItemDTO{Nombre: "Vigilante"})
		Expect(err).NotTo(HaveOccurred())
		Expect(renamed.Nombre).To(Equal("Vigilante"))
		Expect(renamed.Activo).To(BeFalse())

		active, _ := service.List(ctx, "cargos", true, "")
		Expect(active).To(BeEmpty())
	})

	It("renames and deletes items", func() {
		item, _ := service.Create(ctx, "admin", "tipos_novedad", catalog.ItemDTO{Nombre: "Permiso"})
		renamed, err := service.Update(ctx, "admin", "tipos_novedad", item.ID, catalog.ItemDTO{Nombre: "Permiso remunerado"})
		Expect(err).NotTo(HaveOccurred())
		Expect(renamed.Nombre).To(Equal("Permiso remunerado"))

		Expect(service.Delete(ctx, "admin", "tipos_novedad", item.ID)).To(Succeed())
		Expect(service.Delete(ctx, "admin", "tipos_novedad", item.ID)).To(MatchError(internal.ErrCatalogNotFound))
	})
})
