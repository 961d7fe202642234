package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/123ang/iso-document/internal/infrastructure/database"
	"github.com/123ang/iso-document/internal/infrastructure/di"
	"github.com/123ang/iso-document/internal/infrastructure/worker"
	"github.com/123ang/iso-document/internal/interface/middleware"
	"github.com/123ang/iso-document/internal/interface/router"
	"github.com/123ang/iso-document/internal/interface/server"
	"github.com/123ang/iso-document/internal/interface/validator"
	"github.com/123ang/iso-document/pkg/config"
	"github.com/123ang/iso-document/pkg/logger"
)

// @title ISO Document API
// @version 1.0
// @description ドキュメントバージョン管理の REST API
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env は存在しなくてもよい
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logger setup
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Log.Level
	logConfig.Format = cfg.Log.Format
	logConfig.AddSource = cfg.Server.Debug
	if err := logger.Setup(logConfig); err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Migrations
	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Initialize DI Container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Initialize UseCases, Handlers, and Middlewares
	container.InitVersioningUseCases()
	handlers := di.NewHandlers(container)
	middlewares := di.NewMiddlewares(container)

	// Setup Server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Server.Port
	serverConfig.Debug = cfg.Server.Debug
	srv := server.NewServer(serverConfig)
	e := srv.Echo()

	// Setup validator and error handler
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Metrics(container.Metrics))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CORSWithConfig(middleware.NewCORSConfig(cfg.Security.CORSOrigins)))

	// Setup Router
	router.NewRouter(e, handlers, middlewares).Setup()

	// Start background workers
	workerMgr := worker.NewManager(worker.WithObserver(container.Metrics))
	if container.PgClient != nil {
		workerMgr.Register(worker.NewHealthCheckJob(container.PgClient.Health))
	}
	workerMgr.Register(worker.NewStorageIntegrityJob(
		func(ctx context.Context) (int, error) {
			output, err := container.Versioning.ScanMissingFiles.Execute(ctx)
			if err != nil {
				return 0, err
			}
			return output.Missing, nil
		},
		container.Metrics.SetMissingOnStorage,
		worker.StorageIntegrityJobConfig{},
	))
	workerMgr.Start()

	slog.Info("starting server",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Backend,
		"version_policy", container.Policy.Name(),
		"audit", cfg.Audit.Enabled,
	)

	// SIGINT/SIGTERM でグレースフルシャットダウン
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		slog.Error("server error", "error", err)
	}

	workerMgr.Shutdown(10 * time.Second)
	slog.Info("server stopped")
}
