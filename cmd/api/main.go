package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doccollect/internal/config"
	"doccollect/internal/database"
	"doccollect/internal/database/migration"
	handlers "doccollect/internal/http/handler"
	"doccollect/internal/http/middleware"
	"doccollect/internal/otel"
	"doccollect/internal/repository/postgres"
	"doccollect/internal/service"
	"doccollect/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx := context.Background()

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	clientRepo := postgres.NewClientPostgres(db)
	periodRepo := postgres.NewPeriodPostgres(db)
	requestRepo := postgres.NewRequestPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)

	// One locker shared across both services so period mutations and document
	// mutations serialize against each other.
	locker := service.NewPeriodLocker()
	notifier := service.NewLogNotifier(os.Stdout, loc)

	clientSvc := service.NewClientService(clientRepo)
	periodSvc := service.NewPeriodService(periodRepo, requestRepo, docRepo, clientRepo, notifier, locker, service.PeriodServiceConfig{
		LinkExpiry:   time.Duration(cfg.Upload.LinkExpiryHours) * time.Hour,
		MaxFileSize:  cfg.Upload.MaxFileSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})
	docSvc := service.NewDocumentService(objStore, docRepo, requestRepo, periodRepo, clientRepo, locker, service.DocumentServiceConfig{
		ProcessingDelay: time.Duration(cfg.Pipeline.ProcessingDelayMS) * time.Millisecond,
		StuckAfter:      time.Duration(cfg.Pipeline.StuckAfterMin) * time.Minute,
		PresignExpiry:   time.Duration(cfg.Upload.PresignExpiryMin) * time.Minute,
		MaxFileSize:     cfg.Upload.MaxFileSize,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, clientSvc, periodSvc, docSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
