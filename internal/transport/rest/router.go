package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/catalog"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/dashboard"
	"github.com/upca/personnel-console/internal/enfermeria"
	"github.com/upca/personnel-console/internal/incapacidad"
	"github.com/upca/personnel-console/internal/novedad"
	"github.com/upca/personnel-console/internal/observability"
	"github.com/upca/personnel-console/internal/transport"
	"github.com/upca/personnel-console/internal/transport/middleware"
	"github.com/upca/personnel-console/internal/transport/swagger"
	"github.com/upca/personnel-console/internal/user"
)

// Handlers groups the resource handlers mounted under /api/v1. A nil
// handler leaves its routes unmounted.
type Handlers struct {
	Auth          *auth.Handler
	Users         *user.Handler
	Novedades     *novedad.Handler
	Incapacidades *incapacidad.Handler
	Enfermeria    *enfermeria.Handler
	Catalogs      *catalog.Handler
	Dashboard     *dashboard.Handler
}

type Options struct {
	AllowedOrigins  []string
	Production      bool
	LoginRatePerMin int
	// MetricsPath mounts the prometheus handler when non-empty.
	MetricsPath string
	OpenAPI     []byte
	Validator   *middleware.OpenAPIValidator
}

// recordResource is the route surface shared by novedades, incapacidades
// and enfermeria.
type recordResource interface {
	List(http.ResponseWriter, *http.Request)
	Export(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.SecureHeaders(logger, opts.Production))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.MetricsPath != "" {
		router.Use(observability.Instrument)
		router.Handle(opts.MetricsPath, observability.Handler())
	}

	if opts.OpenAPI != nil {
		spec := opts.OpenAPI
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(spec)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator.Middleware)
		}

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.With(loginLimiter(opts.LoginRatePerMin, logger)).Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
			sr.With(h.Auth.AuthMiddleware).Get("/session", h.Auth.Session)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Dashboard != nil {
				pr.With(rbac.RequirePermission(access.Dashboard, access.Read)).Get("/dashboard", h.Dashboard.Get)
			}

			if h.Users != nil {
				pr.Route("/users", func(ur chi.Router) {
					mountRecords(ur, rbac, access.Usuarios, h.Users)
					ur.With(rbac.RequirePermission(access.Usuarios, access.Read)).Get("/{id}/permissions", h.Users.GetPermissions)
					ur.With(rbac.RequirePermission(access.Usuarios, access.Update)).Put("/{id}/permissions", h.Users.ReplacePermissions)
				})
			}
			if h.Novedades != nil {
				pr.Route("/novedades", func(nr chi.Router) { mountRecords(nr, rbac, access.Novedades, h.Novedades) })
			}
			if h.Incapacidades != nil {
				pr.Route("/incapacidades", func(ir chi.Router) { mountRecords(ir, rbac, access.Incapacidades, h.Incapacidades) })
			}
			if h.Enfermeria != nil {
				pr.Route("/enfermeria", func(er chi.Router) { mountRecords(er, rbac, access.Enfermeria, h.Enfermeria) })
			}

			if h.Catalogs != nil {
				pr.Route("/catalogs", func(cr chi.Router) {
					// every form needs the option lists, so reading is open
					cr.Get("/", h.Catalogs.Kinds)
					cr.Get("/{kind}", h.Catalogs.List)
					cr.With(rbac.RequirePermission(access.Configuracion, access.Create)).Post("/{kind}", h.Catalogs.Create)
					cr.With(rbac.RequirePermission(access.Configuracion, access.Update)).Put("/{kind}/{id}", h.Catalogs.Update)
					cr.With(rbac.RequirePermission(access.Configuracion, access.Update)).Post("/{kind}/{id}/toggle", h.Catalogs.Toggle)
					cr.With(rbac.RequirePermission(access.Configuracion, access.Delete)).Delete("/{kind}/{id}", h.Catalogs.Delete)
				})
			}
		})
	})
}

func mountRecords(r chi.Router, rbac *auth.RBACAuthorization, module access.Module, res recordResource) {
	read := rbac.RequirePermission(module, access.Read)
	r.With(read).Get("/", res.List)
	r.With(read).Get("/export", res.Export)
	r.With(read).Get("/{id}", res.Get)
	r.With(rbac.RequirePermission(module, access.Create)).Post("/", res.Create)
	r.With(rbac.RequirePermission(module, access.Update)).Put("/{id}", res.Update)
	r.With(rbac.RequirePermission(module, access.Delete)).Delete("/{id}", res.Delete)
}

// loginLimiter throttles login attempts per client IP. A zero rate disables it.
func loginLimiter(perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	base := transport.NewBaseHandler(logger)
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			observability.RecordLogin(observability.LoginRejected)
			base.WriteAppError(w, internal.ErrTooManyAttempts)
		}),
	)
}
