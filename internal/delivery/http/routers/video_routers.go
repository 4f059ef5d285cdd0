package routers

import (
	"video-orchestrator/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupVideoRoutes(app *fiber.App, videoHandler *handlers.VideoHandler) {
	api := app.Group("/api/v1")
	api.Post("/videos/upload", videoHandler.UploadVideo)
	api.Post("/videos/:id/process", videoHandler.ProcessVideo)
	api.Get("/videos/:id/status", videoHandler.UploadStatus)
	api.Get("/videos/:id/subtitle", videoHandler.Subtitle)
}
