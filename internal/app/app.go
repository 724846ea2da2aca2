package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"aibox/internal/config"
	"aibox/internal/infrastructure"
	customMiddleware "aibox/internal/middleware"
	"aibox/internal/services"
	"aibox/internal/share"
	handlers "aibox/internal/transport/http"
)

const AppName = "AI-in-a-Box API"

// Application is the main application container.
type Application struct {
	Config       *config.Config
	Router       *chi.Mux
	Server       *http.Server
	CleanService *services.CleanService
	Logger       *slog.Logger
}

// NewApplication creates an application instance with all dependencies
// wired.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", services.Version),
		slog.String("output_dir", cfg.Cleaning.OutputDir))

	store := share.NewMemoryStore(cfg.Cleaning.TokenTTL)
	cleanService := services.NewCleanService(logger, store, cfg.Cleaning.OutputDir)
	healthService := services.NewHealthService(AppName)

	app := &Application{
		Config:       cfg,
		CleanService: cleanService,
		Logger:       logger,
	}
	app.Router = app.buildRouter(cleanService, healthService)
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return app, nil
}

func (app *Application) buildRouter(cleanService *services.CleanService, healthService *services.HealthService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(app.Logger))
	r.Use(customMiddleware.Recovery(app.Logger))
	r.Use(customMiddleware.CORS(app.Config.Security))
	if app.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.RateLimit(app.Config.Security.RateLimit))
	}

	cleanHandler := handlers.NewCleanHandler(cleanService, app.Logger,
		app.Config.Cleaning.MaxUploadBytes, app.Config.Cleaning.ShareRowLimit)
	healthHandler := handlers.NewHealthHandler(healthService, app.Logger)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.HealthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Mount("/", cleanHandler.APIRoutes())
	})
	r.Get("/share/{token}", cleanHandler.SharePage)

	return r
}

// Run starts the HTTP server and blocks until shutdown.
func (app *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		app.Logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	infrastructure.CloseLogFile()
	app.Logger.Info("Server stopped", slog.Duration("grace_period", app.Config.Server.ShutdownTimeout))
	return nil
}
