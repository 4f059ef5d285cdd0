package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-orchestrator/internal/delivery/http/handlers"
	"video-orchestrator/internal/delivery/http/routers"
	"video-orchestrator/internal/infrastructure/db"
	"video-orchestrator/internal/infrastructure/queue"
	infra_repo "video-orchestrator/internal/infrastructure/repositories"
	"video-orchestrator/internal/infrastructure/runpod"
	"video-orchestrator/internal/infrastructure/storage"
	"video-orchestrator/internal/infrastructure/transport"
	"video-orchestrator/internal/usecases"
	"video-orchestrator/pkg/config"

	_ "video-orchestrator/migrations"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	database, err := db.NewPostgresDB()
	if err != nil {
		log.Fatalf("DB bağlantısı başarısız: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		log.Fatalf("sql.DB alınamadı: %v", err)
	}

	if os.Getenv("RUN_AUTO_MIGRATION") == "true" {
		goose.SetBaseFS(nil)
		if err := goose.Up(sqlDB, "."); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})

	s3Storage, err := storage.NewS3Storage(context.Background(), cfg.AWS.Bucket, cfg.AWS.Region)
	if err != nil {
		log.Fatalf("S3 client oluşturulamadı: %v", err)
	}

	httpClient := transport.NewClient(30 * time.Second)
	runpodClient := runpod.NewClient(cfg.RunPod.BaseURL, httpClient)

	// Repositories & Services
	uploadRepo := infra_repo.NewUploadVideoRepository(database)
	subtitleRepo := infra_repo.NewSubtitleRepository(database)
	codeRepo := infra_repo.NewCommonCodeRepository(database)

	orchestrator := usecases.NewOrchestratorService(
		uploadRepo, subtitleRepo, codeRepo, s3Storage, runpodClient,
		cfg.Monitor.PollInterval, cfg.Monitor.MaxWait,
	)
	pool := queue.NewWorkerPool(cfg.Upload.Workers, orchestrator)

	cleanupUC := usecases.NewCleanupService(uploadRepo, codeRepo, cfg.Upload.TempDir)
	c := cron.New(cron.WithSeconds())
	c.AddFunc("0 */5 * * * *", func() {
		if err := cleanupUC.ReapStaleUploads(cfg.Monitor.MaxWait + 10*time.Minute); err != nil {
			log.Printf("Error reaping stale uploads: %v", err)
		}
		if err := cleanupUC.CleanupOldTempFiles(24 * time.Hour); err != nil {
			log.Printf("Error cleaning up old temp files: %v", err)
		}
	})
	c.Start()

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSize),
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	videoHandler := handlers.NewVideoHandler(uploadRepo, subtitleRepo, codeRepo, pool, rdb, cfg.Upload.TempDir)
	routers.SetupVideoRoutes(app, videoHandler)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)

	// Graceful shutdown
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server başlatılamadı: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Print("Shutdown sinyali alındı, server kapatılıyor...")

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		log.Fatalf("Server düzgün kapatılamadı: %v", err)
	}

	c.Stop()
	pool.Shutdown()
	log.Println("Server düzgün bir şekilde kapatıldı")
}
