// Package seed loads the first administrator and the default catalog
// entries into a fresh database. Running it twice changes nothing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/catalog"
	catalogPostgres "github.com/upca/personnel-console/internal/catalog/postgres"
	"github.com/upca/personnel-console/internal/user"
	userPostgres "github.com/upca/personnel-console/internal/user/postgres"
	"gorm.io/gorm"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	BCryptCost    int
	// Clear empties the record and catalog tables first. Users are kept.
	Clear bool
}

type Report struct {
	AdminCreated bool
	CatalogItems int
}

// DefaultCatalogs are the option lists offered by the record forms out of the box.
var DefaultCatalogs = map[catalog.Kind][]string{
	catalog.TiposNovedad:      {"Permiso", "Licencia", "Calamidad doméstica", "Cita médica", "Comisión de servicios"},
	catalog.Diagnosticos:      {"Enfermedad general", "Accidente de trabajo", "Enfermedad laboral", "Licencia de maternidad"},
	catalog.TiposIncapacidad:  {"Enfermedad general", "Accidente laboral", "Maternidad", "Paternidad"},
	catalog.Cargos:            {"Docente", "Instructor", "Auxiliar administrativo", "Coordinador"},
	catalog.Dependencias:      {"Rectoría", "Coordinación académica", "Talento humano", "Bienestar"},
	catalog.Sintomas:          {"Dolor de cabeza", "Fiebre", "Mareo", "Dolor abdominal"},
	catalog.AntecedentesSalud: {"Hipertensión", "Diabetes", "Asma", "Ninguno"},
}

var recordTables = []string{"novedades", "incapacidades", "enfermeria"}

func Run(ctx context.Context, db *gorm.DB, opts Options, logger *slog.Logger) (*Report, error) {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil, errors.New("seed: admin email and password are required")
	}

	if opts.Clear {
		if err := clearTables(ctx, db); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "record and catalog tables cleared")
	}

	report := &Report{}

	users := user.NewService(userPostgres.NewUserRepository(db), opts.BCryptCost, nil, logger)
	_, err := users.Create(ctx, "", user.CreateUserDTO{
		Email:    opts.AdminEmail,
		Password: opts.AdminPassword,
		Role:     "Admin",
	})
	switch {
	case err == nil:
		report.AdminCreated = true
		logger.InfoContext(ctx, "admin seeded", "email", opts.AdminEmail)
	case errors.Is(err, internal.ErrEmailTaken):
		logger.InfoContext(ctx, "admin already exists", "email", opts.AdminEmail)
	default:
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	catalogs := catalog.NewService(catalogPostgres.NewCatalogRepository(db), nil, logger)
	for _, kind := range catalog.Kinds {
		for _, nombre := range DefaultCatalogs[kind] {
			_, err := catalogs.Create(ctx, "", string(kind), catalog.ItemDTO{Nombre: nombre})
			if errors.Is(err, internal.ErrCatalogNameTaken) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("seed %s %q: %w", kind, nombre, err)
			}
			report.CatalogItems++
		}
	}
	logger.InfoContext(ctx, "catalogs seeded", "created", report.CatalogItems)

	return report, nil
}

func clearTables(ctx context.Context, db *gorm.DB) error {
	tables := append([]string{}, recordTables...)
	for _, k := range catalog.Kinds {
		tables = append(tables, k.Table())
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}
