package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/bootstrap"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/cache"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/config"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/logger"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/scheduler"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/handler"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.App.Name,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Zoho Books connector",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	app, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize connector", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Close(ctx); err != nil {
			log.Error("Error releasing resources", zap.Error(err))
		}
	}()

	// Scheduled pull sync
	var jobs handler.SyncJobRunner
	var syncScheduler *scheduler.SyncScheduler
	if cfg.Scheduler.Enabled {
		syncScheduler, err = app.NewScheduler()
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		jobs = syncScheduler
	} else {
		log.Info("Sync scheduler disabled")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    app.Tracer.GetConfig().ServiceName,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Tracing:        app.Tracer.IsEnabled(),
	}, log)
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	health := handler.NewHealthHandler(
		handler.HealthCheck{
			Name:     "database",
			Critical: true,
			Check:    func(context.Context) error { return app.DB.Ping() },
		},
		handler.HealthCheck{
			Name: "credential_cache",
			Check: func(ctx context.Context) error {
				if app.Redis == nil {
					return nil
				}
				if state := app.CacheState(); state == "open" {
					return fmt.Errorf("circuit breaker %s", state)
				}
				return cache.Ping(ctx, app.Redis)
			},
		},
	)
	engine.GET("/health", health.Health)

	connectionHandler := handler.NewZohoConnectionHandler(app.Connection)
	syncHandler := handler.NewZohoSyncHandler(app.Customers, app.Items, app.Invoices, jobs)

	router.NewRouter(engine).
		Register(router.NewZohoRoutes(connectionHandler, syncHandler)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if syncScheduler != nil {
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Error("Sync scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
