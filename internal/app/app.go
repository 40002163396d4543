package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/config"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/errors"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/infrastructure"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/metrics"
	customMiddleware "github.com/thierryrudaseswa/ClassroomSubTracker/internal/middleware"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/services"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/store"
	handlers "github.com/thierryrudaseswa/ClassroomSubTracker/internal/transport/http"
)

const (
	// Version is the application version reported by the health endpoint.
	Version = "1.0.0"
	// AppName is the human-readable application name.
	AppName = "Classroom Subject Tracker"
)

// Application is the main dependency container.
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Service *services.StudentService

	pgStore *store.PostgresStore
}

// NewApplication wires configuration, logging, the batch source, the service
// layer and the router.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("dataset_source", cfg.Dataset.Source))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewDefault(),
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the loader and the student service.
func (a *Application) initializeServices(ctx context.Context) error {
	var loader services.Loader

	switch strings.ToLower(a.Config.Dataset.Source) {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, store.PostgresConfig{
			DSN:          a.Config.Database.DSN,
			MaxOpenConns: a.Config.Database.MaxOpenConns,
			MaxIdleConns: a.Config.Database.MaxIdleConns,
			ConnLifetime: a.Config.Database.ConnLifetime,
		}, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		a.pgStore = pg
		loader = pg
	default:
		loader = store.NewSyntheticStore(
			dataset.DefaultGeneratorConfig(a.Config.Dataset.SyntheticCount, a.Config.Dataset.SyntheticSeed),
			a.Logger,
		)
	}

	a.Service = services.NewStudentService(loader, a.Metrics, a.Logger)
	return nil
}

// setupRouter configures the HTTP router.
// Middleware ordering: RequestID, RealIP, Logger, Recovery, then headers.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := errors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(errors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.Config.Security, a.Logger))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(a.Config.Security.RateLimit, a.Logger).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Read endpoints get the standard timeout; refresh can run long.
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.Service, a.Logger, Version)
			r.Mount("/health", healthHandler.Routes())
		})

		studentHandler := handlers.NewStudentHandler(a.Service, a.Logger, errorHandler)
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.RefreshTimeout, a.Logger))
			r.Mount("/", studentHandler.Routes())
		})
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Prometheus endpoint stays outside the API middleware group.
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving. If RefreshOnStart is set, the first snapshot is built
// before the listener opens so the API is ready from the first request.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	if a.Config.Dataset.RefreshOnStart {
		refreshCtx, cancelRefresh := context.WithTimeout(
			infrastructure.EnsureTraceID(ctx), a.Config.Server.RefreshTimeout)
		defer cancelRefresh()

		if _, err := a.Service.Refresh(refreshCtx); err != nil {
			// The process still starts; readiness stays 503 until a refresh
			// succeeds.
			a.Logger.ErrorContext(ctx, "initial refresh failed",
				slog.String("error", err.Error()))
		}
	}

	go func() {
		a.Logger.InfoContext(ctx, "http server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.pgStore != nil {
		if err := a.pgStore.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "error closing postgres store",
				slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("log file close error: %w", err)
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
