package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/upca/personnel-console/api"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	authPostgres "github.com/upca/personnel-console/internal/auth/postgres"
	"github.com/upca/personnel-console/internal/catalog"
	catalogPostgres "github.com/upca/personnel-console/internal/catalog/postgres"
	"github.com/upca/personnel-console/internal/core/events"
	"github.com/upca/personnel-console/internal/dashboard"
	dashboardPostgres "github.com/upca/personnel-console/internal/dashboard/postgres"
	"github.com/upca/personnel-console/internal/enfermeria"
	enfermeriaPostgres "github.com/upca/personnel-console/internal/enfermeria/postgres"
	"github.com/upca/personnel-console/internal/incapacidad"
	incapacidadPostgres "github.com/upca/personnel-console/internal/incapacidad/postgres"
	"github.com/upca/personnel-console/internal/novedad"
	novedadPostgres "github.com/upca/personnel-console/internal/novedad/postgres"
	"github.com/upca/personnel-console/internal/observability"
	"github.com/upca/personnel-console/internal/transport"
	"github.com/upca/personnel-console/internal/transport/middleware"
	"github.com/upca/personnel-console/internal/transport/rest"
	"github.com/upca/personnel-console/internal/user"
	userPostgres "github.com/upca/personnel-console/internal/user/postgres"
	"github.com/upca/personnel-console/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Redis    *redis.Client
	Bus      *events.Bus
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	if err := setupRoutes(deps); err != nil {
		return err
	}

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("Starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Bus.Drain(ctx); err != nil {
			deps.Logger.Warn("audit drain incomplete", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) error {
	validator, err := middleware.NewOpenAPIValidator(api.OpenAPI, deps.Logger)
	if err != nil {
		return err
	}

	opts := rest.Options{
		AllowedOrigins:  deps.Config.Server.Origins(),
		Production:      isProduction(),
		LoginRatePerMin: deps.Config.Server.LoginRatePerMin,
		OpenAPI:         api.OpenAPI,
		Validator:       validator,
	}
	if m := deps.Config.Observability.Metrics; m.Enabled {
		observability.Init()
		opts.MetricsPath = m.Path
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Handlers, opts, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(appEnv(), cfg.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var (
		redisClient *redis.Client
		revoker     auth.Revoker
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		revoker = auth.NewRedisRevoker(redisClient)
	} else {
		log.Warn("redis address not configured, logout will not revoke tokens")
	}

	bus := events.NewBus(log)
	events.NewAuditLogger(log).Register(bus)

	base := transport.NewBaseHandler(log)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gdb, log), tokens, revoker, log)

	handlers := rest.Handlers{
		Auth: auth.NewHandler(authService),
		Users: user.NewHandler(
			user.NewService(userPostgres.NewUserRepository(gdb), cfg.Security.BCryptCost, bus, log)),
		Novedades: novedad.NewHandler(
			novedad.NewService(novedadPostgres.NewNovedadRepository(gdb), bus, log)),
		Incapacidades: incapacidad.NewHandler(
			incapacidad.NewService(incapacidadPostgres.NewIncapacidadRepository(gdb), bus, log)),
		Enfermeria: enfermeria.NewHandler(
			enfermeria.NewService(enfermeriaPostgres.NewEnfermeriaRepository(gdb), bus, log)),
		Catalogs: catalog.NewHandler(base,
			catalog.NewService(catalogPostgres.NewCatalogRepository(gdb), bus, log)),
		Dashboard: dashboard.NewHandler(base,
			dashboard.NewService(dashboardPostgres.NewCounter(db), log)),
	}

	return &Dependencies{
		Config:   cfg,
		DB:       db,
		Gorm:     gdb,
		Redis:    redisClient,
		Bus:      bus,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Logger:   log,
	}, nil
}

// initDB opens the shared pgx pool. sqlx and gorm both run on it.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	db, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gdb, nil
}
