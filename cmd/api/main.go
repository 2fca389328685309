package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ocragent/internal/config"
	"ocragent/internal/extract"
	handlers "ocragent/internal/http/handler"
	"ocragent/internal/http/middleware"
	"ocragent/internal/ocr"
	"ocragent/internal/otel"
	"ocragent/internal/service"
	"ocragent/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Tracing is optional; a failed exporter degrades to noop.
	shutdownTracing, err := otel.Init(context.Background(), logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Retention store: local directory by default, S3-compatible on request.
	var store storage.BlobStore
	switch cfg.StorageBackend {
	case "minio":
		store, err = storage.NewMinIO(cfg.MinIO)
	default:
		store, err = storage.NewFilesystem(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("failed to initialize retention store: %v", err)
	}

	// Extraction pipeline: Tesseract engine behind the dispatch layer.
	engine := ocr.NewTesseractEngine(cfg.OCRLanguages...)
	dispatcher := extract.NewDispatcher(engine)
	svc := service.NewOCRService(dispatcher, store, engine.Name(), cfg, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Per-file ceiling plus headroom for multipart framing and the
		// remaining form fields.
		BodyLimit: (cfg.MaxDocsPerBatch + 1) * cfg.MaxFileBytes(),
	})

	// Register global middleware
	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, svc, cfg)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
