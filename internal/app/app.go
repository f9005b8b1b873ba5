package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobportal/database"
	"jobportal/internal/config"
	"jobportal/internal/logger"
	"jobportal/internal/middleware"
	"jobportal/internal/routes"
	"jobportal/internal/workers"
	"jobportal/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	sessionCleanupInterval = time.Hour
	limiterCleanupInterval = 10 * time.Minute
)

// Run запускает HTTP-сервер и останавливает его по SIGINT/SIGTERM
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	deps, err := BuildDependencies(ctx, cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to build dependencies", "error", err)
	}
	defer deps.Close()

	ginRouter := SetupRouter(deps)

	workers.NewSessionCleanupWorker(gormDB, deps.Repos.Sessions, deps.Repos.Users, sessionCleanupInterval).Start(ctx)
	go cleanupLimiters(ctx, deps.Guards)

	var workerDone <-chan error
	if cfg.Notifications.RunWorker && deps.Queue != nil {
		w := workers.NewNotificationWorker(deps.Queue, deps.Mailer, cfg.Notifications.MaxRetries,
			time.Duration(cfg.Notifications.RetryDelay)*time.Millisecond)
		workerDone = w.Start(ctx)
		logger.Info("Notification worker embedded in web process")
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("Server startup error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	if workerDone != nil {
		<-workerDone
	}
	logger.Info("Server stopped")
}

// RunWorker запускает отдельный процесс воркера уведомлений
func RunWorker() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}

	deps, err := BuildDependencies(ctx, cfg, gormDB, withConsumer())
	if err != nil {
		logger.Fatal("Failed to build dependencies", "error", err)
	}
	defer deps.Close()

	workers.NewSessionCleanupWorker(gormDB, deps.Repos.Sessions, deps.Repos.Users, sessionCleanupInterval).Start(ctx)

	w := workers.NewNotificationWorker(deps.Queue, deps.Mailer, cfg.Notifications.MaxRetries,
		time.Duration(cfg.Notifications.RetryDelay)*time.Millisecond)
	if err := w.Run(ctx); err != nil {
		logger.Error("Worker exited with error", "error", err)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, gormDB, cfg.Database.Driver); err != nil {
			return nil, err
		}
	}
	return gormDB, nil
}

// SetupRouter собирает gin.Engine с middleware и маршрутами
func SetupRouter(deps *Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(cfg.Server.Env == "development")

	ginRouter := initializeGinRouter(deps)

	media := routes.MediaRoute{}
	if cfg.Storage.Type == "local" {
		media = routes.MediaRoute{URLPrefix: cfg.Storage.BaseURL, Dir: cfg.Storage.BasePath}
	}
	routes.RegisterRoutes(ginRouter, deps.Handlers, media)

	return ginRouter
}

func initializeGinRouter(deps *Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = deps.Config.Upload.MaxSize + 1<<20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware([]string{deps.Config.Server.PublicURL}))
	router.Use(middleware.DBMiddleware(deps.DB))
	return router
}

func cleanupLimiters(ctx context.Context, guards *middleware.RouteGuards) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, l := range guards.Limiters() {
				l.Cleanup(limiterCleanupInterval)
			}
		}
	}
}
